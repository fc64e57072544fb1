package club

import "context"

// Repository is the club registry consumed by the sync engine.
type Repository interface {
	List(ctx context.Context) ([]Club, error)
	GetByID(ctx context.Context, id string) (Club, bool, error)
	GetByName(ctx context.Context, name string) (Club, bool, error)
	Upsert(ctx context.Context, item Club) error
}
