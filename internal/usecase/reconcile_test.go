package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
)

func slotAt(clubID, court string, start time.Time, length time.Duration) availability.Slot {
	return availability.Slot{
		ClubID:    clubID,
		CourtName: court,
		StartTime: start,
		EndTime:   start.Add(length),
		Currency:  "PLN",
	}
}

func TestDiff_AddsMissingAndRemovesStale(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC)
	kept := slotAt("c1", "Kort 1", base, time.Hour)
	stale := slotAt("c1", "Kort 1", base.Add(time.Hour), time.Hour)
	fresh := slotAt("c1", "Kort 2", base, 90*time.Minute)

	storedKept := kept
	storedKept.ID = "stored-1"
	storedKept.Price = 99
	storedStale := stale
	storedStale.ID = "stored-2"

	toAdd, toRemove := Diff(
		[]availability.Slot{kept, fresh, fresh},
		[]availability.Slot{storedKept, storedStale},
	)

	if len(toAdd) != 1 || toAdd[0].Key() != fresh.Key() {
		t.Fatalf("unexpected toAdd: %+v", toAdd)
	}
	if len(toRemove) != 1 || toRemove[0].ID != "stored-2" {
		t.Fatalf("unexpected toRemove: %+v", toRemove)
	}
}

func TestDiff_KeyIgnoresLocationOfTimes(t *testing.T) {
	t.Parallel()

	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	utc := slotAt("c1", "Kort 1", time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC), time.Hour)
	local := slotAt("c1", "Kort 1", time.Date(2025, 6, 14, 10, 0, 0, 0, warsaw), time.Hour)

	toAdd, toRemove := Diff([]availability.Slot{utc}, []availability.Slot{local})
	if len(toAdd) != 0 || len(toRemove) != 0 {
		t.Fatalf("same instant must reconcile to no-op: add=%d remove=%d", len(toAdd), len(toRemove))
	}
}

func TestDiff_ApplyingResultConverges(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 14, 6, 0, 0, 0, time.UTC)
	var current, existing []availability.Slot
	for i := 0; i < 10; i++ {
		start := base.Add(time.Duration(i) * 30 * time.Minute)
		if i%2 == 0 {
			current = append(current, slotAt("c1", "Kort 1", start, time.Hour))
		}
		if i%3 == 0 {
			existing = append(existing, slotAt("c1", "Kort 1", start, time.Hour))
		}
	}

	toAdd, toRemove := Diff(current, existing)

	removed := map[availability.Key]bool{}
	for _, s := range toRemove {
		removed[s.Key()] = true
	}
	var next []availability.Slot
	for _, s := range existing {
		if !removed[s.Key()] {
			next = append(next, s)
		}
	}
	next = append(next, toAdd...)

	add2, remove2 := Diff(current, next)
	if len(add2) != 0 || len(remove2) != 0 {
		t.Fatalf("second diff must be empty: add=%d remove=%d", len(add2), len(remove2))
	}
	if len(next) != len(current) {
		t.Fatalf("store should mirror current snapshot: got=%d want=%d", len(next), len(current))
	}
}
