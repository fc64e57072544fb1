package courtme

import (
	"context"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

// Provider is registered for CourtMe clubs but has no integration yet; it always
// reports an empty, successful result.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Kind() club.ProviderKind {
	return club.ProviderCourtMe
}

func (p *Provider) FetchAvailability(context.Context, club.Club, time.Time, time.Time) availability.ClubResult {
	return availability.ClubResult{}
}
