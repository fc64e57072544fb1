package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/workerpool"
)

// CourtFetcher reads a club's court list from its public Playtomic page.
type CourtFetcher interface {
	FetchCourts(ctx context.Context, c club.Club) ([]playtomiccourt.Court, error)
}

type CourtCatalogReport struct {
	Clubs  int `json:"clubs"`
	Courts int `json:"courts"`
	Failed int `json:"failed"`
}

// CourtCatalogService refreshes the Playtomic court catalog used to filter availability.
type CourtCatalogService struct {
	clubs   club.Repository
	courts  playtomiccourt.Repository
	fetcher CourtFetcher
	workers int
	logger  *logging.Logger
}

func NewCourtCatalogService(clubs club.Repository, courts playtomiccourt.Repository, fetcher CourtFetcher, workers int, logger *logging.Logger) *CourtCatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CourtCatalogService{
		clubs:   clubs,
		courts:  courts,
		fetcher: fetcher,
		workers: workers,
		logger:  logger.Named("courts"),
	}
}

type courtFetchResult struct {
	club   club.Club
	courts []playtomiccourt.Court
	err    error
}

func (s *CourtCatalogService) SyncPlaytomicCourts(ctx context.Context) (CourtCatalogReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourtCatalogService.SyncPlaytomicCourts")
	defer span.End()

	clubs, err := s.clubs.List(ctx)
	if err != nil {
		return CourtCatalogReport{}, fmt.Errorf("list clubs: %w", err)
	}
	var playtomicClubs []club.Club
	for _, c := range clubs {
		if c.Provider == club.ProviderPlaytomic {
			playtomicClubs = append(playtomicClubs, c)
		}
	}

	results, err := workerpool.Map(ctx, playtomicClubs, s.workers, func(ctx context.Context, c club.Club) courtFetchResult {
		courts, err := s.fetcher.FetchCourts(ctx, c)
		return courtFetchResult{club: c, courts: courts, err: err}
	})
	if err != nil {
		return CourtCatalogReport{}, err
	}

	report := CourtCatalogReport{Clubs: len(playtomicClubs)}
	var all []playtomiccourt.Court
	for _, res := range results {
		if res.err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "fetch playtomic courts failed", "club", res.club.Name, "error", res.err)
			continue
		}
		all = append(all, res.courts...)
	}

	if len(all) > 0 {
		if err := s.courts.UpsertMany(ctx, all); err != nil {
			return report, fmt.Errorf("upsert playtomic courts: %w", err)
		}
	}
	report.Courts = len(all)
	s.logger.InfoContext(ctx, "playtomic court catalog refreshed", "clubs", report.Clubs, "courts", report.Courts, "failed", report.Failed)
	return report, nil
}
