package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/pkg/logger"
)

func identity() domain.Identity {
	ts := time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)
	return domain.Identity{
		ID: "1", Name: "Admin User", Email: "admin@example.com",
		Role: domain.RoleAdmin, Status: domain.StatusActive,
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(NewMemory().Scope("c1"), logger.Nop())

	require.NoError(t, store.Save(ctx, identity(), "tok-1"))

	got := store.Read(ctx)
	require.NotNil(t, got)
	assert.Equal(t, identity(), *got)

	token, ok := store.ReadToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestSessionStore_WireFormat(t *testing.T) {
	ctx := context.Background()
	ls := NewMemory().Scope("c1")
	store := NewSessionStore(ls, logger.Nop())
	require.NoError(t, store.Save(ctx, identity(), "tok-1"))

	raw, ok, err := ls.GetItem(ctx, KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{
		"id":"1","name":"Admin User","email":"admin@example.com",
		"role":"admin","status":"active",
		"createdAt":"2023-01-15T10:30:00Z","updatedAt":"2023-01-15T10:30:00Z"
	}`, raw)

	token, _, _ := ls.GetItem(ctx, KeyToken)
	assert.Equal(t, "tok-1", token)
}

func TestSessionStore_RefusesInvalidIdentity(t *testing.T) {
	ctx := context.Background()
	ls := NewMemory().Scope("c1")
	store := NewSessionStore(ls, logger.Nop())

	bad := identity()
	bad.Email = ""
	err := store.Save(ctx, bad, "tok")
	assert.True(t, errors.Is(err, domain.ErrInvalidIdentity))

	for _, key := range []string{KeyToken, KeyUser} {
		_, ok, _ := ls.GetItem(ctx, key)
		assert.False(t, ok, key)
	}
}

func TestSessionStore_ReadCorrupt(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"empty":       "",
		"not json":    "{",
		"wrong shape": `["admin"]`,
		"missing id":  `{"email":"a@b.co","role":"user","status":"active"}`,
		"bad status":  `{"id":"1","email":"a@b.co","role":"user","status":"ativo"}`,
	} {
		t.Run(name, func(t *testing.T) {
			ls := NewMemory().Scope("c1")
			require.NoError(t, ls.SetItem(ctx, KeyUser, raw))
			assert.Nil(t, NewSessionStore(ls, logger.Nop()).Read(ctx))
		})
	}
}

func TestSessionStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(NewMemory().Scope("c1"), logger.Nop())
	require.NoError(t, store.Save(ctx, identity(), "tok"))

	store.Clear(ctx)
	store.Clear(ctx)

	assert.Nil(t, store.Read(ctx))
	_, ok := store.ReadToken(ctx)
	assert.False(t, ok)
}

func TestSessionStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(Unavailable{}, logger.Nop())

	err := store.Save(ctx, identity(), "tok")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Nil(t, store.Read(ctx))
	_, ok := store.ReadToken(ctx)
	assert.False(t, ok)
	assert.NotPanics(t, func() { store.Clear(ctx) })
}

func TestMemory_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := NewSessionStore(m.Scope("a"), logger.Nop())
	b := NewSessionStore(m.Scope("b"), logger.Nop())

	require.NoError(t, a.Save(ctx, identity(), "tok-a"))

	assert.Nil(t, b.Read(ctx))
	_, ok := b.ReadToken(ctx)
	assert.False(t, ok)

	b.Clear(ctx)
	assert.NotNil(t, a.Read(ctx))
}

// failingKey wraps a LocalStorage and fails every write of one key.
type failingKey struct {
	ports.LocalStorage
	key string
}

func (f failingKey) SetItem(ctx context.Context, key, value string) error {
	if key == f.key {
		return ErrUnavailable
	}
	return f.LocalStorage.SetItem(ctx, key, value)
}

func TestSessionStore_FailedUserWriteDropsToken(t *testing.T) {
	ctx := context.Background()
	ls := failingKey{LocalStorage: NewMemory().Scope("c1"), key: KeyUser}
	store := NewSessionStore(ls, logger.Nop())

	err := store.Save(ctx, identity(), "tok")
	require.ErrorIs(t, err, ErrUnavailable)

	assert.Nil(t, store.Read(ctx))
	_, ok := store.ReadToken(ctx)
	assert.False(t, ok, "token left behind without an identity")
}
