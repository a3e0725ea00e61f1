package ports

import (
	"context"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// AuthService is the server side of /auth/* on the development identity API.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error)
	Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error)
}

// UserService is the server side of /users on the development identity API.
type UserService interface {
	List(ctx context.Context) ([]domain.Identity, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.Identity, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.Identity, error)
	Delete(ctx context.Context, id string) error
}
