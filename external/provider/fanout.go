package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/platform/workerpool"
)

const DefaultDayWorkers = 8

// DayRequest is one independent unit of provider work.
type DayRequest struct {
	Date time.Time
	Page int
}

// Requests expands [start, end] into one request per date, or per date and page
// when pages > 0.
func Requests(start, end time.Time, pages int) []DayRequest {
	dates := availability.Dates(start, end)
	perDate := pages
	if perDate <= 0 {
		perDate = 1
	}
	out := make([]DayRequest, 0, len(dates)*perDate)
	for _, date := range dates {
		for page := 0; page < perDate; page++ {
			out = append(out, DayRequest{Date: date, Page: page})
		}
	}
	return out
}

// FetchDays runs fetch for every request concurrently and aggregates the outcomes.
// A panicking fetch becomes an UnexpectedError for that request only.
func FetchDays(
	ctx context.Context,
	messages Messages,
	requests []DayRequest,
	workers int,
	fetch func(context.Context, DayRequest) availability.DayOutcome,
) availability.ClubResult {
	if workers <= 0 {
		workers = DefaultDayWorkers
	}

	outcomes, err := workerpool.Map(ctx, requests, workers, func(ctx context.Context, req DayRequest) (outcome availability.DayOutcome) {
		defer func() {
			if rec := recover(); rec != nil {
				outcome = availability.Failure(req.Date, req.Page, availability.ReasonUnexpectedError,
					messages[availability.ReasonUnexpectedError], fmt.Errorf("panic: %v", rec))
			}
		}()
		if err := ctx.Err(); err != nil {
			return messages.FailedOutcome(req.Date, req.Page, err)
		}
		return fetch(ctx, req)
	})
	if err != nil {
		outcomes = make([]availability.DayOutcome, 0, len(requests))
		for _, req := range requests {
			outcomes = append(outcomes, availability.Failure(req.Date, req.Page, availability.ReasonUnexpectedError,
				messages[availability.ReasonUnexpectedError], err))
		}
	}
	return availability.Collect(outcomes)
}
