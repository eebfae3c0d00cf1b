package cache

import (
	"context"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the Redis-or-memory backed stores the server needs
type Stores struct {
	Idempotency shared.IdempotencyStore
	Reports     JSONCache
	client      *redis.Client
}

// NewStores connects to Redis when it is enabled and reachable and falls
// back to in-process stores otherwise
func NewStores(cfg config.RedisConfig, log *zap.Logger) *Stores {
	if cfg.Enabled {
		client, err := NewRedisClient(cfg)
		if err == nil {
			log.Info("using Redis for report cache and webhook idempotency")
			return &Stores{
				Idempotency: NewRedisIdempotencyStore(client),
				Reports:     NewRedisJSONCache(client, "reports"),
				client:      client,
			}
		}
		log.Warn("Redis unavailable, falling back to in-memory stores; "+
			"webhook deduplication is per instance", zap.Error(err))
	}
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Reports:     NewInMemoryJSONCache(),
	}
}

// Close releases the Redis connection or stops the in-memory sweeper
func (s *Stores) Close() error {
	err := s.Idempotency.Close()
	if s.client != nil {
		if cerr := s.client.Close(); cerr != nil {
			return cerr
		}
	}
	return err
}

// Ping checks the Redis connection. In-memory stores are always up.
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}
