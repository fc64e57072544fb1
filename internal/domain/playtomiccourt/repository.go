package playtomiccourt

import "context"

type Repository interface {
	List(ctx context.Context) ([]Court, error)
	ListByClub(ctx context.Context, clubID string) ([]Court, error)
	UpsertMany(ctx context.Context, items []Court) error
}
