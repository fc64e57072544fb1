package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
)

func TestRequests_ExpandsDatesAndPages(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	if got := len(Requests(start, end, 0)); got != 3 {
		t.Fatalf("unpaginated request count: got=%d want=3", got)
	}
	reqs := Requests(start, end, 2)
	if len(reqs) != 6 {
		t.Fatalf("paginated request count: got=%d want=6", len(reqs))
	}
	if reqs[1].Page != 1 || !reqs[1].Date.Equal(availability.DateOf(start)) {
		t.Fatalf("unexpected second request: %+v", reqs[1])
	}
}

func TestFetchDays_IsolatesFailures(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	bad := start.AddDate(0, 0, 1)
	panicky := start.AddDate(0, 0, 2)
	messages := DefaultMessages("Test")

	result := FetchDays(context.Background(), messages, Requests(start, start.AddDate(0, 0, 3), 0), 2,
		func(_ context.Context, req DayRequest) availability.DayOutcome {
			switch {
			case req.Date.Equal(bad):
				return messages.FailedOutcome(req.Date, req.Page, errors.New("boom"))
			case req.Date.Equal(panicky):
				panic("parser exploded")
			}
			return availability.Success(req.Date, req.Page, []availability.Slot{{ClubID: "c1", StartTime: req.Date}})
		})

	if len(result.Slots) != 2 {
		t.Fatalf("unexpected slot count: got=%d want=2", len(result.Slots))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("unexpected failure count: got=%d want=2", len(result.Failures))
	}
	if !result.Failures[0].Date.Equal(bad) || !result.Failures[1].Date.Equal(panicky) {
		t.Fatalf("failures not sorted by date: %+v", result.Failures)
	}
	for _, f := range result.Failures {
		if f.Reason != availability.ReasonUnexpectedError {
			t.Fatalf("unexpected reason: %s", f.Reason)
		}
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	if got := Slug(" Padel Arena Warszawa ", '-'); got != "padel-arena-warszawa" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := Slug("Klub Sportowy", '_'); got != "klub_sportowy" {
		t.Fatalf("unexpected slug: %q", got)
	}
}
