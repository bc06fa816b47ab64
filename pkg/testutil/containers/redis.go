//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/redis"
)

// RedisContainer wraps a testcontainers Redis instance connected through the
// same client constructor `serve` uses.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *goredis.Client
}

// NewRedisContainer starts Redis for the inventory cache tests.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	client, err := redis.New(ctx, config.RedisConfig{
		URL:         url,
		PoolSize:    4,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to redis: %v", err)
	}

	// No t.Cleanup: the Manager shares this container across suites.
	return &RedisContainer{
		Container: container,
		URL:       url,
		Client:    client.Client,
	}
}

// FlushAll clears every key so each test starts from an empty cache.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
