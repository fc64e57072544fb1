package provider

import (
	"context"
	"errors"
	"net"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
)

var (
	ErrTransient        = crerr.New("transient provider failure")
	ErrUnexpectedStatus = crerr.New("unexpected provider status")
	ErrEmptyResponse    = crerr.New("empty provider response")
	ErrMalformedPayload = crerr.New("malformed provider payload")
	ErrAuthentication   = crerr.New("provider authentication failed")
)

// IsTransportFailure reports whether err should count against the circuit breaker.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Classify maps an adapter error onto the failure taxonomy.
func Classify(err error) availability.FailureReason {
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return availability.ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return availability.ReasonTimeout
	case errors.Is(err, ErrEmptyResponse):
		return availability.ReasonEmptyResponse
	case errors.Is(err, ErrMalformedPayload):
		return availability.ReasonMalformedPayload
	case errors.Is(err, ErrAuthentication):
		return availability.ReasonAuthenticationFailed
	case errors.Is(err, ErrTransient), errors.Is(err, ErrUnexpectedStatus), errors.Is(err, resilience.ErrCircuitOpen):
		return availability.ReasonNetworkError
	default:
		return availability.ReasonUnexpectedError
	}
}

// Messages holds the operator-facing text per failure reason for one booking site.
type Messages map[availability.FailureReason]string

// DefaultMessages builds the standard "<problem> calling <label>" set.
func DefaultMessages(label string) Messages {
	return Messages{
		availability.ReasonAuthenticationFailed: "Failed to authenticate to " + label,
		availability.ReasonNetworkError:         "Network error calling " + label,
		availability.ReasonTimeout:              "Request timeout calling " + label,
		availability.ReasonEmptyResponse:        "Empty response from " + label,
		availability.ReasonMalformedPayload:     "Invalid response from " + label,
		availability.ReasonUnexpectedError:      "Unexpected error processing " + label,
	}
}

// FailedOutcome classifies err and turns it into a failed DayOutcome.
func (m Messages) FailedOutcome(date time.Time, page int, err error) availability.DayOutcome {
	reason := Classify(err)
	if reason == "" {
		reason = availability.ReasonUnexpectedError
	}
	return availability.Failure(date, page, reason, m[reason], err)
}
