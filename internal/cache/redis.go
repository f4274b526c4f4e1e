package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis database. The service owns the whole
// database number it is configured with: ClearAll issues FLUSHDB.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// RedisOptions configures the Redis cache backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis creates a Redis-backed cache. The connection is verified lazily;
// an unreachable backend degrades every operation to a miss rather than
// failing construction.
func NewRedis(opts RedisOptions, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		logger: logger,
	}
}

// Get returns the payload for key. Backend errors are logged and reported
// as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Error("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores value under key with the given TTL. Returns false when the
// write was not acknowledged.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

// ClearAll flushes the configured Redis database.
func (r *Redis) ClearAll(ctx context.Context) bool {
	if err := r.rdb.FlushDB(ctx).Err(); err != nil {
		r.logger.Error("cache clear failed", "error", err)
		return false
	}
	return true
}

// Health pings the backend.
func (r *Redis) Health(ctx context.Context) Health {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return Health{Status: "unhealthy", Error: err.Error()}
	}
	return Health{Status: "healthy"}
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
