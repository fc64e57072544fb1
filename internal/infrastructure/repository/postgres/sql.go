package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/court-spotter/internal/platform/batch"
)

// rateLimitDelay is how long a rejected write waits before it is retried.
const rateLimitDelay = time.Second

// Postgres refuses new work with these codes when it is saturated.
var rateLimitCodes = map[pq.ErrorCode]struct{}{
	"53300": {}, // too_many_connections
	"53400": {}, // configuration_limit_exceeded
	"57P03": {}, // cannot_connect_now
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// asRetryable wraps saturation errors so batch.Run retries the item.
func asRetryable(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if _, ok := rateLimitCodes[pqErr.Code]; ok {
			return &batch.RetryAfterError{Delay: rateLimitDelay, Err: err}
		}
	}
	return err
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
