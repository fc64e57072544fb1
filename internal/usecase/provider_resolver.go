package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

// AvailabilityProvider fetches one club's slots for [start, end]. Implementations
// never fail as a whole: every problem is reported per date in the result.
type AvailabilityProvider interface {
	Kind() club.ProviderKind
	FetchAvailability(ctx context.Context, c club.Club, start, end time.Time) availability.ClubResult
}

type ProviderResolver struct {
	providers map[club.ProviderKind]AvailabilityProvider
}

func NewProviderResolver(providers ...AvailabilityProvider) *ProviderResolver {
	r := &ProviderResolver{providers: make(map[club.ProviderKind]AvailabilityProvider, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[p.Kind()] = p
	}
	return r
}

func (r *ProviderResolver) Resolve(kind club.ProviderKind) (AvailabilityProvider, error) {
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, kind)
	}
	return p, nil
}
