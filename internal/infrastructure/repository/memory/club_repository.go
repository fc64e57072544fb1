package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

type ClubRepository struct {
	mu     sync.RWMutex
	items  map[string]club.Club
	orders []string
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	items := make(map[string]club.Club, len(clubs))
	orders := make([]string, 0, len(clubs))

	for _, c := range clubs {
		if _, exists := items[c.ID]; !exists {
			orders = append(orders, c.ID)
		}
		items[c.ID] = cloneClub(c)
	}

	return &ClubRepository{
		items:  items,
		orders: orders,
	}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]club.Club, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneClub(r.items[id]))
	}

	return out, nil
}

func (r *ClubRepository) GetByID(_ context.Context, id string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return club.Club{}, false, nil
	}

	return cloneClub(c), true, nil
}

func (r *ClubRepository) GetByName(_ context.Context, name string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if c := r.items[id]; strings.EqualFold(c.Name, name) {
			return cloneClub(c), true, nil
		}
	}

	return club.Club{}, false, nil
}

func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = cloneClub(item)
	return nil
}

func cloneClub(c club.Club) club.Club {
	copied := c
	if c.PagesCount != nil {
		pages := *c.PagesCount
		copied.PagesCount = &pages
	}
	return copied
}
