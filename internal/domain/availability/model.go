package availability

import (
	"strings"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

type CourtType string

const (
	CourtIndoor  CourtType = "indoor"
	CourtOutdoor CourtType = "outdoor"
)

const (
	DefaultCurrency  = "PLN"
	UnknownCourtName = "Unknown Court"
	HalfHour         = 30 * time.Minute
)

// Slot is one bookable (start, duration) option on one court. Times are UTC.
type Slot struct {
	ID         string
	ClubID     string
	ClubName   string
	CourtName  string
	CourtType  CourtType
	StartTime  time.Time
	EndTime    time.Time
	Price      float64
	Currency   string
	BookingURL string
	Provider   club.ProviderKind
}

func (s Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Valid reports whether the slot satisfies the persisted-record invariants.
func (s Slot) Valid() bool {
	return strings.TrimSpace(s.ClubID) != "" &&
		strings.TrimSpace(s.CourtName) != "" &&
		s.StartTime.Before(s.EndTime)
}

// Key identifies "the same slot" across two snapshots. Generated ids are not part of it.
type Key struct {
	ClubID    string
	Start     int64
	End       int64
	CourtName string
}

func (s Slot) Key() Key {
	return Key{
		ClubID:    s.ClubID,
		Start:     s.StartTime.UTC().UnixNano(),
		End:       s.EndTime.UTC().UnixNano(),
		CourtName: s.CourtName,
	}
}

func ParseCourtType(v string) (CourtType, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(CourtIndoor):
		return CourtIndoor, true
	case string(CourtOutdoor):
		return CourtOutdoor, true
	default:
		return "", false
	}
}
