package ports

import (
	"context"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// CreateUserInput is the payload of POST /users.
type CreateUserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

// UpdateUserInput is the payload of PATCH /users/{id}. Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string      `json:"name,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Password *string      `json:"password,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
}

// IdentityAPI is the remote REST API the portal talks to. Every failure is a
// *domain.AuthError of kind rejected or connection.
type IdentityAPI interface {
	Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error)
	Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error)

	ListUsers(ctx context.Context, token string) ([]domain.Identity, error)
	CreateUser(ctx context.Context, token string, in CreateUserInput) (*domain.Identity, error)
	UpdateUser(ctx context.Context, token, id string, in UpdateUserInput) (*domain.Identity, error)
	DeleteUser(ctx context.Context, token, id string) error
}
