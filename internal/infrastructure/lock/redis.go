package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/court-spotter/internal/platform/id"
)

const (
	DefaultSyncLeaseKey = "courtspotter:sync:lease"
	DefaultLeaseTTL     = 9 * time.Minute
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lease taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLease struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	ids    id.Generator
}

func NewRedisLease(client redis.UniversalClient, key string, ttl time.Duration, ids id.Generator) *RedisLease {
	if key == "" {
		key = DefaultSyncLeaseKey
	}
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &RedisLease{client: client, key: key, ttl: ttl, ids: ids}
}

// TryAcquire takes the lease without waiting. acquired is false when another holder has it.
func (l *RedisLease) TryAcquire(ctx context.Context) (func(context.Context) error, bool, error) {
	token, err := l.ids.NewID()
	if err != nil {
		return nil, false, fmt.Errorf("generate lease token: %w", err)
	}

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release lease %s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}

func (l *RedisLease) Key() string {
	return l.key
}

func (l *RedisLease) TTL() time.Duration {
	return l.ttl
}
