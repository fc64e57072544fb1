package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	qb "github.com/riskibarqy/court-spotter/internal/platform/querybuilder"
)

const playtomicCourtTable = "playtomic_courts"

const upsertPlaytomicCourtSuffix = `ON CONFLICT (id) DO UPDATE SET
	club_id = EXCLUDED.club_id,
	name = EXCLUDED.name,
	court_type = EXCLUDED.court_type`

type PlaytomicCourtRepository struct {
	db *sqlx.DB
}

func NewPlaytomicCourtRepository(db *sqlx.DB) *PlaytomicCourtRepository {
	return &PlaytomicCourtRepository{db: db}
}

func (r *PlaytomicCourtRepository) List(ctx context.Context) ([]playtomiccourt.Court, error) {
	return r.selectCourts(ctx, "select playtomic courts")
}

func (r *PlaytomicCourtRepository) ListByClub(ctx context.Context, clubID string) ([]playtomiccourt.Court, error) {
	return r.selectCourts(ctx, "select playtomic courts by club", qb.Eq("club_id", clubID))
}

func (r *PlaytomicCourtRepository) selectCourts(ctx context.Context, op string, conditions ...qb.Condition) ([]playtomiccourt.Court, error) {
	query, args, err := qb.Select("*").From(playtomicCourtTable).
		Where(conditions...).
		OrderBy("club_id", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []playtomicCourtTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]playtomiccourt.Court, 0, len(rows))
	for _, row := range rows {
		out = append(out, playtomiccourt.Court{
			ID:     row.ID,
			ClubID: row.ClubID,
			Name:   row.Name,
			Type:   availability.CourtType(row.CourtType),
		})
	}
	return out, nil
}

func (r *PlaytomicCourtRepository) UpsertMany(ctx context.Context, items []playtomiccourt.Court) error {
	if len(items) == 0 {
		return nil
	}

	// A multi-row upsert cannot touch the same id twice.
	seen := make(map[string]struct{}, len(items))
	models := make([]playtomicCourtTableModel, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		models = append(models, playtomicCourtTableModel{
			ID:        item.ID,
			ClubID:    item.ClubID,
			Name:      item.Name,
			CourtType: string(item.Type),
		})
	}

	query, args, err := qb.InsertModels(playtomicCourtTable, models, upsertPlaytomicCourtSuffix)
	if err != nil {
		return fmt.Errorf("build upsert playtomic courts query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert playtomic courts: %w", err)
	}
	return nil
}
