package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

type clubTableModel struct {
	ID         string        `db:"id"`
	Name       string        `db:"name"`
	Provider   string        `db:"provider"`
	TimeZone   string        `db:"time_zone"`
	PagesCount sql.NullInt64 `db:"pages_count"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func (m clubTableModel) toClub() club.Club {
	return club.Club{
		ID:         m.ID,
		Name:       m.Name,
		Provider:   club.ProviderKind(m.Provider),
		TimeZone:   m.TimeZone,
		PagesCount: nullIntPtr(m.PagesCount),
	}
}

func clubModelFromClub(c club.Club, now time.Time) clubTableModel {
	return clubTableModel{
		ID:         c.ID,
		Name:       c.Name,
		Provider:   string(c.Provider),
		TimeZone:   c.TimeZone,
		PagesCount: intPtrToNull(c.PagesCount),
		UpdatedAt:  now.UTC(),
	}
}

type playtomicCourtTableModel struct {
	ID        string `db:"id"`
	ClubID    string `db:"club_id"`
	Name      string `db:"name"`
	CourtType string `db:"court_type"`
}
