package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/platform/id"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultDaysToSync     = 14
	defaultMaxClubWorkers = 8
	queryPaddingDays      = 2
)

type SyncConfig struct {
	DaysToSync     int
	MaxClubWorkers int
}

// CycleLock keeps two replicas from running a sync cycle at the same time.
type CycleLock interface {
	TryAcquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// SyncObserver receives cycle and per-club outcomes, e.g. for metrics.
type SyncObserver interface {
	ObserveClub(c club.Club, result availability.ClubResult)
	ObserveCycle(report SyncReport, err error)
}

type SyncReport struct {
	Clubs      int           `json:"clubs"`
	Fetched    int           `json:"fetched"`
	Added      int           `json:"added"`
	Removed    int           `json:"removed"`
	FailedDays int           `json:"failedDays"`
	Skipped    bool          `json:"skipped,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
}

type clubSyncOutcome struct {
	club   club.Club
	result availability.ClubResult
}

// AvailabilitySyncService pulls every registered club's availability and reconciles
// the store against it.
type AvailabilitySyncService struct {
	clubs    club.Repository
	store    availability.Repository
	resolver *ProviderResolver
	ids      id.Generator
	lock     CycleLock
	observer SyncObserver
	cfg      SyncConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewAvailabilitySyncService(
	clubs club.Repository,
	store availability.Repository,
	resolver *ProviderResolver,
	ids id.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *AvailabilitySyncService {
	if cfg.DaysToSync <= 0 {
		cfg.DaysToSync = defaultDaysToSync
	}
	if cfg.MaxClubWorkers <= 0 {
		cfg.MaxClubWorkers = defaultMaxClubWorkers
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilitySyncService{
		clubs:    clubs,
		store:    store,
		resolver: resolver,
		ids:      ids,
		cfg:      cfg,
		logger:   logger.Named("sync"),
		now:      time.Now,
	}
}

func (s *AvailabilitySyncService) WithCycleLock(lock CycleLock) *AvailabilitySyncService {
	s.lock = lock
	return s
}

func (s *AvailabilitySyncService) WithObserver(observer SyncObserver) *AvailabilitySyncService {
	s.observer = observer
	return s
}

// OrchestrateSync runs one cycle and only logs failures; the next tick starts over.
func (s *AvailabilitySyncService) OrchestrateSync(ctx context.Context) {
	if _, err := s.RunSyncCycle(ctx, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "sync cycle failed", "error", err)
	}
}

// RunSyncCycle fetches [asOf date, asOf date + DaysToSync] for every club, diffs it
// against the stored padded window and persists the difference.
func (s *AvailabilitySyncService) RunSyncCycle(ctx context.Context, asOf time.Time) (report SyncReport, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilitySyncService.RunSyncCycle")
	defer span.End()

	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sync cycle panic: %v", rec)
		}
		report.Duration = time.Since(started)
		report.DurationMs = report.Duration.Milliseconds()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if s.observer != nil {
			s.observer.ObserveCycle(report, err)
		}
		s.logger.InfoContext(ctx, "sync cycle finished",
			"elapsed", report.Duration,
			"clubs", report.Clubs,
			"added", report.Added,
			"removed", report.Removed,
			"failed_days", report.FailedDays,
			"skipped", report.Skipped,
		)
	}()

	if s.lock != nil {
		release, acquired, lockErr := s.lock.TryAcquire(ctx)
		if lockErr != nil {
			return report, fmt.Errorf("acquire sync lease: %w", lockErr)
		}
		if !acquired {
			s.logger.InfoContext(ctx, "sync cycle skipped, another instance holds the lease")
			report.Skipped = true
			return report, nil
		}
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				s.logger.WarnContext(ctx, "release sync lease", "error", relErr)
			}
		}()
	}

	clubs, err := s.clubs.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list clubs: %w", err)
	}
	report.Clubs = len(clubs)

	start := availability.DateOf(asOf.UTC())
	end := start.AddDate(0, 0, s.cfg.DaysToSync)
	span.SetAttributes(
		attribute.Int("sync.clubs", len(clubs)),
		attribute.String("sync.start", start.Format(time.DateOnly)),
		attribute.String("sync.end", end.Format(time.DateOnly)),
	)

	var current []availability.Slot
	for _, outcome := range s.fetchClubs(ctx, clubs, start, end) {
		s.logClubOutcome(ctx, outcome)
		report.FailedDays += len(outcome.result.Failures)
		for _, slot := range outcome.result.Slots {
			if slot.Valid() {
				current = append(current, slot)
			}
		}
	}
	report.Fetched = len(current)

	// Cancelled fetches come back as failed days with no slots; diffing them would
	// delete the whole window.
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("sync cycle interrupted after fetch: %w", err)
	}

	existing, err := s.store.Query(ctx,
		start.AddDate(0, 0, -queryPaddingDays),
		end.AddDate(0, 0, queryPaddingDays),
		availability.Filter{},
	)
	if err != nil {
		return report, fmt.Errorf("query stored availability: %w", err)
	}

	toAdd, toRemove := Diff(current, existing)
	for i := range toAdd {
		if toAdd[i].ID != "" {
			continue
		}
		slotID, idErr := s.ids.NewID()
		if idErr != nil {
			return report, fmt.Errorf("assign slot id: %w", idErr)
		}
		toAdd[i].ID = slotID
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("sync cycle interrupted before persist: %w", err)
	}
	if err := s.store.SaveBatch(ctx, toAdd); err != nil {
		return report, fmt.Errorf("save %d slots: %w", len(toAdd), err)
	}
	report.Added = len(toAdd)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("sync cycle interrupted before delete: %w", err)
	}
	if err := s.store.DeleteBatch(ctx, toRemove); err != nil {
		return report, fmt.Errorf("delete %d slots: %w", len(toRemove), err)
	}
	report.Removed = len(toRemove)

	return report, nil
}

func (s *AvailabilitySyncService) fetchClubs(ctx context.Context, clubs []club.Club, start, end time.Time) []clubSyncOutcome {
	p := pool.NewWithResults[clubSyncOutcome]().WithMaxGoroutines(s.cfg.MaxClubWorkers)
	for _, c := range clubs {
		c := c
		p.Go(func() clubSyncOutcome {
			return s.fetchClub(ctx, c, start, end)
		})
	}
	return p.Wait()
}

func (s *AvailabilitySyncService) fetchClub(ctx context.Context, c club.Club, start, end time.Time) (out clubSyncOutcome) {
	out.club = c
	defer func() {
		if rec := recover(); rec != nil {
			out.result = availability.FailAll(start, end, availability.ReasonUnexpectedError,
				"Unexpected error syncing club", fmt.Errorf("panic: %v", rec))
		}
	}()

	adapter, err := s.resolver.Resolve(c.Provider)
	if err != nil {
		out.result = availability.FailAll(start, end, availability.ReasonUnexpectedError, "No provider registered for club", err)
		return out
	}
	out.result = adapter.FetchAvailability(ctx, c, start, end)
	return out
}

func (s *AvailabilitySyncService) logClubOutcome(ctx context.Context, outcome clubSyncOutcome) {
	if s.observer != nil {
		s.observer.ObserveClub(outcome.club, outcome.result)
	}
	for _, failure := range outcome.result.Failures {
		s.logger.ErrorContext(ctx,
			fmt.Sprintf("%s for %s at %s", failure.Message, outcome.club.Name, failure.Date.Format(time.DateOnly)),
			"club_id", outcome.club.ID,
			"provider", string(outcome.club.Provider),
			"reason", string(failure.Reason),
			"date", failure.Date.Format(time.DateOnly),
			"page", failure.Page,
			"error", failure.Cause,
		)
	}
	if len(outcome.result.Slots) > 0 {
		s.logger.InfoContext(ctx, "club availability fetched",
			"club", outcome.club.Name,
			"provider", string(outcome.club.Provider),
			"slots", len(outcome.result.Slots),
		)
	}
}
