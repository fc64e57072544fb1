package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	qb "github.com/riskibarqy/court-spotter/internal/platform/querybuilder"
)

const clubTable = "clubs"

const upsertClubSuffix = `ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	provider = EXCLUDED.provider,
	time_zone = EXCLUDED.time_zone,
	pages_count = EXCLUDED.pages_count,
	updated_at = EXCLUDED.updated_at`

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	query, args, err := qb.Select("*").From(clubTable).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toClub())
	}
	return out, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	return r.getOne(ctx, "get club by id", qb.Eq("id", id))
}

// GetByName matches case-insensitively.
func (r *ClubRepository) GetByName(ctx context.Context, name string) (club.Club, bool, error) {
	return r.getOne(ctx, "get club by name", qb.Expr("lower(name) = lower(?)", name))
}

func (r *ClubRepository) getOne(ctx context.Context, op string, condition qb.Condition) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From(clubTable).
		Where(condition).
		Limit(1).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return row.toClub(), true, nil
}

func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) error {
	model := clubModelFromClub(item, time.Now())
	query, args, err := qb.InsertModels(clubTable, []clubTableModel{model}, upsertClubSuffix)
	if err != nil {
		return fmt.Errorf("build upsert club query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert club %s: %w", item.ID, err)
	}
	return nil
}
