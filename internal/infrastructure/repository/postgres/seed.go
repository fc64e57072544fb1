package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	qb "github.com/riskibarqy/court-spotter/internal/platform/querybuilder"
)

// BootstrapClubs inserts the seed clubs when the clubs table is empty.
// It returns the number of inserted rows.
func BootstrapClubs(ctx context.Context, db *sqlx.DB, clubs []club.Club) (int, error) {
	if len(clubs) == 0 {
		return 0, nil
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM clubs`); err != nil {
		return 0, fmt.Errorf("count clubs for bootstrap seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	models := make([]clubTableModel, 0, len(clubs))
	for _, c := range clubs {
		models = append(models, clubModelFromClub(c, now))
	}
	query, args, err := qb.InsertModels(clubTable, models, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("build seed clubs query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("seed clubs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return len(clubs), nil
	}
	return int(inserted), nil
}
