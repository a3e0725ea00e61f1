package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-portal/pkg/logger"
)

// Runs against a real server only when REDIS_ADDR is set.
func TestRedis_SessionStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	clientID := uuid.NewString()
	ls := NewRedis(client, time.Minute).Scope(clientID)
	store := NewSessionStore(ls, logger.Nop())

	require.NoError(t, store.Save(ctx, identity(), "tok-redis"))
	got := store.Read(ctx)
	require.NotNil(t, got)
	assert.Equal(t, identity(), *got)

	ttl, err := client.TTL(ctx, keyPrefix+":"+clientID+":"+KeyToken).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	store.Clear(ctx)
	assert.Nil(t, store.Read(ctx))
	_, ok := store.ReadToken(ctx)
	assert.False(t, ok)
}

func TestRedis_UnreachableServerReadsAbsent(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(NewRedis(client, 0).Scope("c1"), logger.Nop())
	assert.Nil(t, store.Read(context.Background()))
	assert.Error(t, store.Save(context.Background(), identity(), "tok"))
}
