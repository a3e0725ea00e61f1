package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/infrastructure/storage"
	"github.com/99minutos/user-portal/pkg/logger"
)

type stubIdentityAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*domain.CredentialBundle, error)
	registerFn func(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error)
	listFn     func(ctx context.Context, token string) ([]domain.Identity, error)
	createFn   func(ctx context.Context, token string, in ports.CreateUserInput) (*domain.Identity, error)
	updateFn   func(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.Identity, error)
	deleteFn   func(ctx context.Context, token, id string) error
	calls      int
}

func (s *stubIdentityAPI) Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error) {
	s.calls++
	return s.loginFn(ctx, email, password)
}

func (s *stubIdentityAPI) Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error) {
	s.calls++
	return s.registerFn(ctx, name, email, password)
}

func (s *stubIdentityAPI) ListUsers(ctx context.Context, token string) ([]domain.Identity, error) {
	s.calls++
	return s.listFn(ctx, token)
}

func (s *stubIdentityAPI) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.Identity, error) {
	s.calls++
	return s.createFn(ctx, token, in)
}

func (s *stubIdentityAPI) UpdateUser(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.Identity, error) {
	s.calls++
	return s.updateFn(ctx, token, id, in)
}

func (s *stubIdentityAPI) DeleteUser(ctx context.Context, token, id string) error {
	s.calls++
	return s.deleteFn(ctx, token, id)
}

func adminIdentity() domain.Identity {
	ts := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	return domain.Identity{
		ID: "1", Name: "Admin User", Email: "admin@example.com",
		Role: domain.RoleAdmin, Status: domain.StatusActive,
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func standardIdentity() domain.Identity {
	ts := time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC)
	return domain.Identity{
		ID: "2", Name: "Regular User", Email: "user@example.com",
		Role: domain.RoleUser, Status: domain.StatusActive,
		CreatedAt: ts, UpdatedAt: ts,
	}
}

// newClientStore returns a fresh session store and the raw local storage under it.
func newClientStore() (*storage.SessionStore, ports.LocalStorage) {
	ls := storage.NewMemory().Scope("client-1")
	return storage.NewSessionStore(ls, logger.Nop()), ls
}

func newTestGateway(api ports.IdentityAPI) (*AuthGateway, *storage.SessionStore, ports.LocalStorage) {
	store, ls := newClientStore()
	return NewAuthGateway(api, store, NewFormValidator(), logger.Nop()), store, ls
}

func testLog() zerolog.Logger { return logger.Nop() }
