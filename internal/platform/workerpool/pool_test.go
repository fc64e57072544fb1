package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestMap_PreservesOrderAndBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	got, err := Map(context.Background(), items, 3, func(_ context.Context, v int) int {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return v * 10
	})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	for i, v := range items {
		if got[i] != v*10 {
			t.Fatalf("unexpected result at %d: got=%d want=%d", i, got[i], v*10)
		}
	}
	if p := peak.Load(); p > 3 {
		t.Fatalf("expected at most 3 concurrent workers, got=%d", p)
	}
}

func TestMap_Empty(t *testing.T) {
	t.Parallel()

	got, err := Map(context.Background(), []string(nil), 4, func(context.Context, string) int { return 1 })
	if err != nil || len(got) != 0 {
		t.Fatalf("unexpected result: got=%v err=%v", got, err)
	}
}
