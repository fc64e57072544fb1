package availability

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("availability not found")

// Filter narrows a range query. Zero values mean "no filter".
type Filter struct {
	Durations []time.Duration
	ClubIDs   []string
	CourtType *CourtType
}

// Repository is the availability store. SaveBatch and DeleteBatch are idempotent.
type Repository interface {
	Query(ctx context.Context, start, end time.Time, filter Filter) ([]Slot, error)
	SaveBatch(ctx context.Context, items []Slot) error
	DeleteBatch(ctx context.Context, items []Slot) error
}
