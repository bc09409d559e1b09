package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

const StateLedgerPrefix = "oauth:state:"

// RedisStateLedger records issued OAuth states server side so a replayed
// cookie cannot be used once the state has been consumed or has expired.
type RedisStateLedger struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateLedger creates a ledger whose keys expire after ttl (the state cookie lifetime).
func NewRedisStateLedger(client *redis.Client, ttl time.Duration) *RedisStateLedger {
	return &RedisStateLedger{
		client: client,
		prefix: StateLedgerPrefix,
		ttl:    ttl,
	}
}

// Remember stores an issued state.
func (l *RedisStateLedger) Remember(ctx context.Context, platform connection.Platform, state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if err := l.client.Set(ctx, l.buildKey(platform, state), "1", l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// Consume deletes the state and reports whether it was still live.
// GETDEL makes the check single use even for concurrent callbacks.
func (l *RedisStateLedger) Consume(ctx context.Context, platform connection.Platform, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	_, err := l.client.GetDel(ctx, l.buildKey(platform, state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume state from redis: %w", err)
	}
	return true, nil
}

func (l *RedisStateLedger) buildKey(platform connection.Platform, state string) string {
	return l.prefix + platform.String() + ":" + state
}

// NopStateLedger accepts every state. Used when Redis is not configured;
// the state cookie alone then guards the callback.
type NopStateLedger struct{}

func (NopStateLedger) Remember(context.Context, connection.Platform, string) error {
	return nil
}

func (NopStateLedger) Consume(context.Context, connection.Platform, string) (bool, error) {
	return true, nil
}
