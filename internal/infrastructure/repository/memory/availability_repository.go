package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
)

// AvailabilityRepository keeps slots keyed by their reconciliation key, the
// same uniqueness the postgres store enforces.
type AvailabilityRepository struct {
	mu    sync.RWMutex
	items map[availability.Key]availability.Slot
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{items: make(map[availability.Key]availability.Slot)}
}

func (r *AvailabilityRepository) Query(ctx context.Context, start, end time.Time, filter availability.Filter) ([]availability.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	durations := make(map[time.Duration]struct{}, len(filter.Durations))
	for _, d := range filter.Durations {
		durations[d] = struct{}{}
	}
	clubs := make(map[string]struct{}, len(filter.ClubIDs))
	for _, id := range filter.ClubIDs {
		clubs[id] = struct{}{}
	}

	out := make([]availability.Slot, 0)
	for _, s := range r.items {
		if s.StartTime.Before(start) || s.EndTime.After(end) {
			continue
		}
		if len(durations) > 0 {
			if _, ok := durations[s.Duration()]; !ok {
				continue
			}
		}
		if len(clubs) > 0 {
			if _, ok := clubs[s.ClubID]; !ok {
				continue
			}
		}
		if filter.CourtType != nil && s.CourtType != *filter.CourtType {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		if out[i].ClubID != out[j].ClubID {
			return out[i].ClubID < out[j].ClubID
		}
		return out[i].CourtName < out[j].CourtName
	})

	return out, nil
}

func (r *AvailabilityRepository) SaveBatch(ctx context.Context, items []availability.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range items {
		key := s.Key()
		if _, exists := r.items[key]; exists {
			continue
		}
		s.StartTime = s.StartTime.UTC()
		s.EndTime = s.EndTime.UTC()
		r.items[key] = s
	}
	return nil
}

func (r *AvailabilityRepository) DeleteBatch(ctx context.Context, items []availability.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range items {
		delete(r.items, s.Key())
	}
	return nil
}
