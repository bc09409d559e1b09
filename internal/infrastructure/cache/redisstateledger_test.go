package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisStateLedger_SingleUse(t *testing.T) {
	client := setupTestRedis(t)
	ledger := NewRedisStateLedger(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Remember(ctx, connection.YouTube, "state-1"))

	ttl, err := client.TTL(ctx, "oauth:state:youtube:state-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	ok, err := ledger.Consume(ctx, connection.YouTube, "state-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Consume(ctx, connection.YouTube, "state-1")
	require.NoError(t, err)
	assert.False(t, ok, "state must not be accepted twice")
}

func TestRedisStateLedger_ScopedByPlatform(t *testing.T) {
	client := setupTestRedis(t)
	ledger := NewRedisStateLedger(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Remember(ctx, connection.Facebook, "shared"))

	ok, err := ledger.Consume(ctx, connection.Instagram, "shared")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.Consume(ctx, connection.Facebook, "shared")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStateLedger_Expires(t *testing.T) {
	client := setupTestRedis(t)
	ledger := NewRedisStateLedger(client, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, ledger.Remember(ctx, connection.LinkedIn, "short"))
	time.Sleep(300 * time.Millisecond)

	ok, err := ledger.Consume(ctx, connection.LinkedIn, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStateLedger_EmptyState(t *testing.T) {
	ledger := NewRedisStateLedger(redis.NewClient(&redis.Options{Addr: "localhost:0"}), time.Minute)

	assert.Error(t, ledger.Remember(context.Background(), connection.YouTube, ""))

	ok, err := ledger.Consume(context.Background(), connection.YouTube, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopStateLedger(t *testing.T) {
	var ledger NopStateLedger
	require.NoError(t, ledger.Remember(context.Background(), connection.YouTube, "x"))

	ok, err := ledger.Consume(context.Background(), connection.YouTube, "x")
	require.NoError(t, err)
	assert.True(t, ok)
}
