package ports

import (
	"context"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// AuthGateway turns user-entered credentials into identity API calls and owns
// the client's SessionStore.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error)
	Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error)
	SocialLogin(ctx context.Context, provider string) (*domain.CredentialBundle, error)
	Logout(ctx context.Context)

	CurrentIdentity(ctx context.Context) *domain.Identity
	IsAuthenticated(ctx context.Context) bool
	Token(ctx context.Context) (string, bool)
}
