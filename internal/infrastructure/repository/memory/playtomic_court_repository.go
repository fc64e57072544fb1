package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
)

type PlaytomicCourtRepository struct {
	mu    sync.RWMutex
	items map[string]playtomiccourt.Court
}

func NewPlaytomicCourtRepository() *PlaytomicCourtRepository {
	return &PlaytomicCourtRepository{items: make(map[string]playtomiccourt.Court)}
}

func (r *PlaytomicCourtRepository) List(_ context.Context) ([]playtomiccourt.Court, error) {
	return r.filter(func(playtomiccourt.Court) bool { return true }), nil
}

func (r *PlaytomicCourtRepository) ListByClub(_ context.Context, clubID string) ([]playtomiccourt.Court, error) {
	return r.filter(func(c playtomiccourt.Court) bool { return c.ClubID == clubID }), nil
}

func (r *PlaytomicCourtRepository) UpsertMany(ctx context.Context, items []playtomiccourt.Court) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range items {
		r.items[c.ID] = c
	}
	return nil
}

func (r *PlaytomicCourtRepository) filter(keep func(playtomiccourt.Court) bool) []playtomiccourt.Court {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playtomiccourt.Court, 0, len(r.items))
	for _, c := range r.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClubID != out[j].ClubID {
			return out[i].ClubID < out[j].ClubID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
