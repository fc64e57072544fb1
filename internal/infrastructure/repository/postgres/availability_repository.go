package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/platform/batch"
	qb "github.com/riskibarqy/court-spotter/internal/platform/querybuilder"
)

const availabilityTable = "court_availabilities"

const insertAvailabilitySuffix = "ON CONFLICT (club_id, start_time, end_time, court_name) DO NOTHING"

type AvailabilityRepository struct {
	db    *sqlx.DB
	batch batch.Config
}

func NewAvailabilityRepository(db *sqlx.DB, cfg batch.Config) *AvailabilityRepository {
	return &AvailabilityRepository{db: db, batch: cfg}
}

func (r *AvailabilityRepository) Query(ctx context.Context, start, end time.Time, filter availability.Filter) ([]availability.Slot, error) {
	query, args, err := qb.Select("*").From(availabilityTable).
		Where(availabilityConditions(start, end, filter)...).
		OrderBy("start_time", "club_id", "court_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select availabilities query: %w", err)
	}

	var rows []availabilityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select availabilities: %w", err)
	}

	out := make([]availability.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toSlot())
	}
	return out, nil
}

func availabilityConditions(start, end time.Time, filter availability.Filter) []qb.Condition {
	conditions := []qb.Condition{
		qb.Gte("start_time", start.UTC()),
		qb.Lte("end_time", end.UTC()),
	}
	if len(filter.Durations) > 0 {
		minutes := make([]any, 0, len(filter.Durations))
		for _, d := range filter.Durations {
			minutes = append(minutes, int(d/time.Minute))
		}
		conditions = append(conditions, qb.In("duration_minutes", minutes))
	}
	if len(filter.ClubIDs) > 0 {
		ids := make([]any, 0, len(filter.ClubIDs))
		for _, id := range filter.ClubIDs {
			ids = append(ids, id)
		}
		conditions = append(conditions, qb.In("club_id", ids))
	}
	if filter.CourtType != nil {
		conditions = append(conditions, qb.Eq("court_type", string(*filter.CourtType)))
	}
	return conditions
}

// SaveBatch inserts slots one row per statement so a rate-limited row is retried alone.
// Rows already present under the same reconciliation key are left untouched.
func (r *AvailabilityRepository) SaveBatch(ctx context.Context, items []availability.Slot) error {
	err := batch.Run(ctx, items, r.batch, func(ctx context.Context, item availability.Slot) error {
		query, args, err := qb.InsertModels(availabilityTable, []availabilityTableModel{availabilityModelFromSlot(item)}, insertAvailabilitySuffix)
		if err != nil {
			return fmt.Errorf("build insert availability query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return asRetryable(fmt.Errorf("insert availability %s: %w", item.ID, err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save availabilities: %w", err)
	}
	return nil
}

// DeleteBatch removes slots by id, or by reconciliation key when the id is unknown.
// Missing rows count as deleted.
func (r *AvailabilityRepository) DeleteBatch(ctx context.Context, items []availability.Slot) error {
	err := batch.Run(ctx, items, r.batch, func(ctx context.Context, item availability.Slot) error {
		query, args, err := qb.DeleteFrom(availabilityTable).Where(deleteConditions(item)...).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete availability query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			if isNotFound(err) {
				return nil
			}
			return asRetryable(fmt.Errorf("delete availability %s: %w", item.ID, err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete availabilities: %w", err)
	}
	return nil
}

func deleteConditions(item availability.Slot) []qb.Condition {
	if item.ID != "" {
		return []qb.Condition{qb.Eq("id", item.ID)}
	}
	return []qb.Condition{
		qb.Eq("club_id", item.ClubID),
		qb.Eq("start_time", item.StartTime.UTC()),
		qb.Eq("end_time", item.EndTime.UTC()),
		qb.Eq("court_name", item.CourtName),
	}
}
