package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	clubmock "github.com/riskibarqy/court-spotter/internal/mocks/domain/club"
	playtomiccourtmock "github.com/riskibarqy/court-spotter/internal/mocks/domain/playtomiccourt"
	"github.com/stretchr/testify/mock"
)

type stubCourtFetcher map[string][]playtomiccourt.Court

func (s stubCourtFetcher) FetchCourts(_ context.Context, c club.Club) ([]playtomiccourt.Court, error) {
	courts, ok := s[c.ID]
	if !ok {
		return nil, errors.New("club page unavailable")
	}
	return courts, nil
}

func TestCourtCatalogService_SyncPlaytomicCourts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clubRepo := clubmock.NewRepository(t)
	courtRepo := playtomiccourtmock.NewRepository(t)

	other := club.Club{ID: "other", Name: "Other Point", Provider: club.ProviderPlaytomic}
	clubRepo.On("List", ctx).Return([]club.Club{arenaClub, pointClub, other}, nil).Once()

	fetcher := stubCourtFetcher{
		"point": {
			{ID: "r1", ClubID: "point", Name: "Pista 1", Type: availability.CourtIndoor},
			{ID: "r2", ClubID: "point", Name: "Pista 2", Type: availability.CourtOutdoor},
		},
	}
	courtRepo.On("UpsertMany", ctx, mock.MatchedBy(func(items []playtomiccourt.Court) bool {
		return len(items) == 2 && items[0].ID == "r1"
	})).Return(nil).Once()

	report, err := NewCourtCatalogService(clubRepo, courtRepo, fetcher, 2, logging.NewNop()).SyncPlaytomicCourts(ctx)
	if err != nil {
		t.Fatalf("SyncPlaytomicCourts returned error: %v", err)
	}
	if report.Clubs != 2 || report.Courts != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestClubRegistryService_Import(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := clubmock.NewRepository(t)
	svc := NewClubRegistryService(repo)

	repo.On("Upsert", ctx, arenaClub).Return(nil).Once()
	repo.On("Upsert", ctx, pointClub).Return(nil).Once()

	n, err := svc.Import(ctx, []club.Club{arenaClub, pointClub})
	if err != nil || n != 2 {
		t.Fatalf("Import: n=%d err=%v", n, err)
	}
}

func TestClubRegistryService_ImportRejectsInvalidClub(t *testing.T) {
	t.Parallel()

	repo := clubmock.NewRepository(t)
	bad := club.Club{ID: "x", Name: "No Provider"}

	_, err := NewClubRegistryService(repo).Import(context.Background(), []club.Club{arenaClub, bad})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestClubRegistryService_GetByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := clubmock.NewRepository(t)
	repo.On("GetByName", ctx, "Padel Arena").Return(arenaClub, true, nil).Once()
	repo.On("GetByName", ctx, "Nowhere").Return(club.Club{}, false, nil).Once()

	svc := NewClubRegistryService(repo)
	got, err := svc.GetByName(ctx, " Padel Arena ")
	if err != nil || got.ID != "arena" {
		t.Fatalf("GetByName: got=%+v err=%v", got, err)
	}
	if _, err := svc.GetByName(ctx, "Nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
