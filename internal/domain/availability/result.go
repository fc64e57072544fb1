package availability

import (
	"fmt"
	"sort"
	"time"
)

type FailureReason string

const (
	ReasonAuthenticationFailed FailureReason = "AuthenticationFailed"
	ReasonNetworkError         FailureReason = "NetworkError"
	ReasonTimeout              FailureReason = "Timeout"
	ReasonEmptyResponse        FailureReason = "EmptyResponse"
	ReasonMalformedPayload     FailureReason = "MalformedPayload"
	ReasonUnexpectedError      FailureReason = "UnexpectedError"
)

// FailedDay records why one (date, page) fetch for a club produced nothing.
type FailedDay struct {
	Date    time.Time
	Page    int
	Reason  FailureReason
	Message string
	Cause   error
}

func (f FailedDay) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

// DayOutcome is the result of one (date, page) unit of work.
type DayOutcome struct {
	Date    time.Time
	Page    int
	Slots   []Slot
	Failure *FailedDay
}

func (o DayOutcome) Succeeded() bool {
	return o.Failure == nil
}

func Success(date time.Time, page int, slots []Slot) DayOutcome {
	return DayOutcome{Date: date, Page: page, Slots: slots}
}

func Failure(date time.Time, page int, reason FailureReason, message string, cause error) DayOutcome {
	return DayOutcome{
		Date: date,
		Page: page,
		Failure: &FailedDay{
			Date:    date,
			Page:    page,
			Reason:  reason,
			Message: message,
			Cause:   cause,
		},
	}
}

// ClubResult aggregates every DayOutcome produced for one club.
type ClubResult struct {
	Slots    []Slot
	Failures []FailedDay
}

func Collect(outcomes []DayOutcome) ClubResult {
	out := ClubResult{}
	for _, outcome := range outcomes {
		if outcome.Failure != nil {
			out.Failures = append(out.Failures, *outcome.Failure)
			continue
		}
		out.Slots = append(out.Slots, outcome.Slots...)
	}
	sort.SliceStable(out.Failures, func(i, j int) bool {
		if !out.Failures[i].Date.Equal(out.Failures[j].Date) {
			return out.Failures[i].Date.Before(out.Failures[j].Date)
		}
		return out.Failures[i].Page < out.Failures[j].Page
	})
	return out
}

// FailAll fails every date in [start, end] with the same reason.
func FailAll(start, end time.Time, reason FailureReason, message string, cause error) ClubResult {
	dates := Dates(start, end)
	outcomes := make([]DayOutcome, 0, len(dates))
	for _, date := range dates {
		outcomes = append(outcomes, Failure(date, 0, reason, message, cause))
	}
	return Collect(outcomes)
}

// Dates lists calendar days in [start, end] inclusive as UTC midnights.
func Dates(start, end time.Time) []time.Time {
	from := DateOf(start)
	to := DateOf(end)
	if to.Before(from) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
