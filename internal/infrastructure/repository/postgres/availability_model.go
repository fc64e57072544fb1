package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

type availabilityTableModel struct {
	ID              string         `db:"id"`
	ClubID          string         `db:"club_id"`
	ClubName        string         `db:"club_name"`
	CourtName       string         `db:"court_name"`
	CourtType       string         `db:"court_type"`
	StartTime       time.Time      `db:"start_time"`
	EndTime         time.Time      `db:"end_time"`
	DurationMinutes int            `db:"duration_minutes"`
	Price           float64        `db:"price"`
	Currency        string         `db:"currency"`
	BookingURL      sql.NullString `db:"booking_url"`
	Provider        string         `db:"provider"`
}

func availabilityModelFromSlot(s availability.Slot) availabilityTableModel {
	return availabilityTableModel{
		ID:              s.ID,
		ClubID:          s.ClubID,
		ClubName:        s.ClubName,
		CourtName:       s.CourtName,
		CourtType:       string(s.CourtType),
		StartTime:       s.StartTime.UTC(),
		EndTime:         s.EndTime.UTC(),
		DurationMinutes: int(s.Duration() / time.Minute),
		Price:           s.Price,
		Currency:        s.Currency,
		BookingURL:      sql.NullString{String: s.BookingURL, Valid: s.BookingURL != ""},
		Provider:        string(s.Provider),
	}
}

func (m availabilityTableModel) toSlot() availability.Slot {
	return availability.Slot{
		ID:         m.ID,
		ClubID:     m.ClubID,
		ClubName:   m.ClubName,
		CourtName:  m.CourtName,
		CourtType:  availability.CourtType(m.CourtType),
		StartTime:  m.StartTime.UTC(),
		EndTime:    m.EndTime.UTC(),
		Price:      m.Price,
		Currency:   m.Currency,
		BookingURL: m.BookingURL.String,
		Provider:   club.ProviderKind(m.Provider),
	}
}
