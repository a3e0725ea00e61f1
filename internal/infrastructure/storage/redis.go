package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-portal/internal/core/ports"
)

const keyPrefix = "portal:storage"

// Redis keeps client items in Redis so sessions survive portal restarts.
// A portal process hydrates each client once and then serves it from memory,
// so a login or logout on one replica is seen by another only after that
// replica evicts the client and hydrates it again.
// Key format: portal:storage:<client_id>:<key>
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis wraps client. A positive ttl expires idle items; zero keeps them forever.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Scope(clientID string) ports.LocalStorage {
	return &redisScope{r: r, id: clientID}
}

type redisScope struct {
	r  *Redis
	id string
}

func (s *redisScope) key(k string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.id, k)
}

func (s *redisScope) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.r.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *redisScope) SetItem(ctx context.Context, key, value string) error {
	if err := s.r.client.Set(ctx, s.key(key), value, s.r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisScope) RemoveItem(ctx context.Context, key string) error {
	if err := s.r.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
