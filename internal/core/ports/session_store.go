package ports

import (
	"context"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// LocalStorage is the client-scoped key-value store backing a SessionStore.
// GetItem reports ok=false for a missing key; backend failures surface as errors.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageProvider hands out the LocalStorage belonging to one client.
type StorageProvider interface {
	Scope(clientID string) LocalStorage
}

// SessionStore persists the current credential bundle of a single client.
// Read and ReadToken never fail: any storage problem reads as "absent".
type SessionStore interface {
	Save(ctx context.Context, identity domain.Identity, token string) error
	Read(ctx context.Context) *domain.Identity
	ReadToken(ctx context.Context) (string, bool)
	Clear(ctx context.Context)
}
