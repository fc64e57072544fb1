package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	basecache "github.com/riskibarqy/court-spotter/internal/platform/cache"
)

const (
	clubPrefix           = "club:"
	playtomicCourtPrefix = "playtomic_court:"
)

type ClubRepository struct {
	next  club.Repository
	cache *basecache.Store
}

func NewClubRepository(next club.Repository, cache *basecache.Store) *ClubRepository {
	return &ClubRepository{next: next, cache: cache}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	v, err := r.cache.GetOrLoad(ctx, clubPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]club.Club)
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	return r.lookup(ctx, clubPrefix+"id:"+id, func(ctx context.Context) (club.Club, bool, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *ClubRepository) GetByName(ctx context.Context, name string) (club.Club, bool, error) {
	return r.lookup(ctx, clubPrefix+"name:"+strings.ToLower(name), func(ctx context.Context) (club.Club, bool, error) {
		return r.next.GetByName(ctx, name)
	})
}

func (r *ClubRepository) lookup(ctx context.Context, key string, load func(context.Context) (club.Club, bool, error)) (club.Club, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return cachedClub{value: item, exists: exists}, nil
	})
	if err != nil {
		return club.Club{}, false, err
	}

	cached, _ := v.(cachedClub)
	return cached.value, cached.exists, nil
}

// Upsert writes through and drops every cached club entry; names may have changed.
func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, clubPrefix)
	return nil
}

type cachedClub struct {
	value  club.Club
	exists bool
}

type PlaytomicCourtRepository struct {
	next  playtomiccourt.Repository
	cache *basecache.Store
}

func NewPlaytomicCourtRepository(next playtomiccourt.Repository, cache *basecache.Store) *PlaytomicCourtRepository {
	return &PlaytomicCourtRepository{next: next, cache: cache}
}

func (r *PlaytomicCourtRepository) List(ctx context.Context) ([]playtomiccourt.Court, error) {
	return r.list(ctx, playtomicCourtPrefix+"list", r.next.List)
}

func (r *PlaytomicCourtRepository) ListByClub(ctx context.Context, clubID string) ([]playtomiccourt.Court, error) {
	return r.list(ctx, playtomicCourtPrefix+"club:"+clubID, func(ctx context.Context) ([]playtomiccourt.Court, error) {
		return r.next.ListByClub(ctx, clubID)
	})
}

func (r *PlaytomicCourtRepository) list(ctx context.Context, key string, load func(context.Context) ([]playtomiccourt.Court, error)) ([]playtomiccourt.Court, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]playtomiccourt.Court(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playtomiccourt.Court)
	return append([]playtomiccourt.Court(nil), items...), nil
}

func (r *PlaytomicCourtRepository) UpsertMany(ctx context.Context, items []playtomiccourt.Court) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, playtomicCourtPrefix)
	return nil
}
