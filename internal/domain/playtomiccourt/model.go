package playtomiccourt

import "github.com/riskibarqy/court-spotter/internal/domain/availability"

// Court is one Playtomic resource known to belong to a registered club.
type Court struct {
	ID     string
	ClubID string
	Name   string
	Type   availability.CourtType
}
