package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultSize  = 100
	DefaultDelay = 500 * time.Millisecond
)

// RetryAfterError marks an item the store rejected because of rate limiting.
// The item is retried after Delay.
type RetryAfterError struct {
	Delay time.Duration
	Err   error
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %v", e.Delay, e.Err)
}

func (e *RetryAfterError) Unwrap() error {
	return e.Err
}

type Config struct {
	Size  int
	Delay time.Duration
	// MaxRateLimitRetries caps retries per item; zero means retry until ctx ends.
	MaxRateLimitRetries int
}

// Run splits items into chunks of cfg.Size. Items inside a chunk run concurrently,
// chunks run one after another with cfg.Delay between them. The first non rate-limit
// error aborts the run.
func Run[T any](ctx context.Context, items []T, cfg Config, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}

	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		if start > 0 && cfg.Delay > 0 {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return err
			}
		}

		group, groupCtx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			item := item
			group.Go(func() error {
				return withRateLimitRetry(groupCtx, cfg.MaxRateLimitRetries, func() error {
					return fn(groupCtx, item)
				})
			})
		}
		if err := group.Wait(); err != nil {
			return fmt.Errorf("chunk %d-%d: %w", start, end, err)
		}
	}

	return nil
}

func withRateLimitRetry(ctx context.Context, maxRetries int, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		var rateLimited *RetryAfterError
		if !errors.As(err, &rateLimited) {
			return err
		}
		if maxRetries > 0 && attempt >= maxRetries {
			return err
		}
		if err := sleep(ctx, rateLimited.Delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
