package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
)

func slotAt(clubID, court string, start time.Time, minutes int, courtType availability.CourtType) availability.Slot {
	return availability.Slot{
		ID:        clubID + court + start.Format(time.RFC3339),
		ClubID:    clubID,
		CourtName: court,
		CourtType: courtType,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestAvailabilityRepository_SaveIsIdempotentByKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAvailabilityRepository()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	first := slotAt("c1", "Kort 1", start, 60, availability.CourtIndoor)
	again := first
	again.ID = "other-id"
	again.Price = 120

	if err := repo.SaveBatch(ctx, []availability.Slot{first}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveBatch(ctx, []availability.Slot{again}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := repo.Query(ctx, start.Add(-time.Hour), start.Add(3*time.Hour), availability.Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("unexpected slots: %+v", got)
	}
}

func TestAvailabilityRepository_QueryFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAvailabilityRepository()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_ = repo.SaveBatch(ctx, []availability.Slot{
		slotAt("c1", "Kort 1", start, 60, availability.CourtIndoor),
		slotAt("c1", "Kort 1", start, 90, availability.CourtIndoor),
		slotAt("c2", "Kort A", start.Add(time.Hour), 60, availability.CourtOutdoor),
		slotAt("c2", "Kort A", start.Add(48*time.Hour), 60, availability.CourtOutdoor),
	})

	windowEnd := start.Add(24 * time.Hour)
	outdoor := availability.CourtOutdoor

	cases := []struct {
		name   string
		filter availability.Filter
		want   int
	}{
		{name: "window only", filter: availability.Filter{}, want: 3},
		{name: "duration", filter: availability.Filter{Durations: []time.Duration{90 * time.Minute}}, want: 1},
		{name: "club", filter: availability.Filter{ClubIDs: []string{"c2"}}, want: 1},
		{name: "court type", filter: availability.Filter{CourtType: &outdoor}, want: 1},
	}
	for _, tc := range cases {
		got, err := repo.Query(ctx, start, windowEnd, tc.filter)
		if err != nil {
			t.Fatalf("%s: query: %v", tc.name, err)
		}
		if len(got) != tc.want {
			t.Fatalf("%s: got=%d want=%d", tc.name, len(got), tc.want)
		}
	}
}

func TestAvailabilityRepository_DeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAvailabilityRepository()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	kept := slotAt("c1", "Kort 1", start, 60, availability.CourtIndoor)
	_ = repo.SaveBatch(ctx, []availability.Slot{kept})

	missing := slotAt("c1", "Kort 2", start, 60, availability.CourtIndoor)
	if err := repo.DeleteBatch(ctx, []availability.Slot{missing}); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := repo.DeleteBatch(ctx, []availability.Slot{kept}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := repo.Query(ctx, start.Add(-time.Hour), start.Add(time.Hour*3), availability.Filter{})
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d", len(got))
	}
}

func TestAvailabilityRepository_CancelledContextLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	repo := NewAvailabilityRepository()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	kept := slotAt("c1", "Kort 1", start, 60, availability.CourtIndoor)
	if err := repo.SaveBatch(context.Background(), []availability.Slot{kept}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.DeleteBatch(ctx, []availability.Slot{kept}); !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected delete error: got=%v want=%v", err, context.Canceled)
	}
	extra := slotAt("c1", "Kort 2", start, 60, availability.CourtIndoor)
	if err := repo.SaveBatch(ctx, []availability.Slot{extra}); !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected save error: got=%v want=%v", err, context.Canceled)
	}
	if _, err := repo.Query(ctx, start, start.Add(time.Hour), availability.Filter{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected query error: got=%v want=%v", err, context.Canceled)
	}

	got, err := repo.Query(context.Background(), start.Add(-time.Hour), start.Add(3*time.Hour), availability.Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Key() != kept.Key() {
		t.Fatalf("unexpected slots: %+v", got)
	}
}
