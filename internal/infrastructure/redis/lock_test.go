package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/infrastructure/redis"
	"github.com/jhoicas/Tienda-api/pkg/config"
)

func redisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(config.RedisConfig{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	return client
}

func TestLocker_SoloUnaReplicaAdquiere(t *testing.T) {
	client := redisClient(t)
	defer client.Close()
	ctx := context.Background()
	key := "tienda:test:lock"
	client.Del(ctx, key)
	defer client.Del(ctx, key)

	a := redis.NewLocker(client, "replica-a")
	b := redis.NewLocker(client, "replica-b")

	ok, err := a.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	owner, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "replica-a", owner)
}
