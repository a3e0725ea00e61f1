package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// Social providers the login screen offers. Neither is wired to an identity
// API endpoint yet, so both answer with a rejection.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// AuthGateway implements ports.AuthGateway for a single client.
type AuthGateway struct {
	api       ports.IdentityAPI
	store     ports.SessionStore
	validator *FormValidator
	log       zerolog.Logger
}

func NewAuthGateway(api ports.IdentityAPI, store ports.SessionStore, validator *FormValidator, log zerolog.Logger) *AuthGateway {
	if validator == nil {
		validator = NewFormValidator()
	}
	return &AuthGateway{
		api:       api,
		store:     store,
		validator: validator,
		log:       log.With().Str("component", "auth_gateway").Logger(),
	}
}

// Login validates the credentials, authenticates against the identity API and
// persists the resulting bundle in the session store.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error) {
	if err := g.validator.Validate(LoginForm{Email: email, Password: password}); err != nil {
		return nil, err
	}

	bundle, err := g.api.Login(ctx, email, password)
	if err != nil {
		g.logFailure(err, "login")
		return nil, err
	}

	if err := bundle.Identity.Validate(); err != nil {
		g.log.Error().Err(err).Msg("identity api returned an unusable identity")
		return nil, domain.ConnectionFailed(err)
	}

	if err := g.store.Save(ctx, bundle.Identity, bundle.Token); err != nil {
		// The user is authenticated for this render; the next hydration will
		// read them as logged out.
		g.log.Warn().Err(err).Str("user_id", bundle.Identity.ID).Msg("failed to persist session")
	}

	g.log.Info().Str("user_id", bundle.Identity.ID).Str("role", string(bundle.Identity.Role)).Msg("login succeeded")
	return bundle, nil
}

// Register creates an account. The session store is never touched: a
// successful registration sends the user to the login screen.
func (g *AuthGateway) Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error) {
	if err := g.validator.Validate(RegisterForm{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	bundle, err := g.api.Register(ctx, name, email, password)
	if err != nil {
		g.logFailure(err, "register")
		return nil, err
	}

	g.log.Info().Str("user_id", bundle.Identity.ID).Msg("registration succeeded")
	return bundle, nil
}

// SocialLogin is the entry point for third-party sign in.
func (g *AuthGateway) SocialLogin(_ context.Context, provider string) (*domain.CredentialBundle, error) {
	switch provider {
	case ProviderGoogle, ProviderMicrosoft:
		return nil, domain.Rejected(0, fmt.Sprintf("%s login is not implemented", provider))
	default:
		return nil, &domain.ValidationError{Fields: map[string]string{
			"provider": fmt.Sprintf("unknown provider %q", provider),
		}}
	}
}

// Logout clears the local session. No network call is made.
func (g *AuthGateway) Logout(ctx context.Context) {
	g.store.Clear(ctx)
}

func (g *AuthGateway) CurrentIdentity(ctx context.Context) *domain.Identity {
	return g.store.Read(ctx)
}

// IsAuthenticated checks token presence only; expiry is left to the identity API.
func (g *AuthGateway) IsAuthenticated(ctx context.Context) bool {
	_, ok := g.store.ReadToken(ctx)
	return ok
}

func (g *AuthGateway) Token(ctx context.Context) (string, bool) {
	return g.store.ReadToken(ctx)
}

func (g *AuthGateway) logFailure(err error, op string) {
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		g.log.Error().Err(err).Str("op", op).Msg("unexpected identity api error")
		return
	}
	ev := g.log.Info()
	if ae.Kind == domain.KindConnection {
		ev = g.log.Warn()
	}
	ev.Err(err).Str("op", op).Str("kind", ae.Kind.String()).Int("status", ae.Status).Msg("identity api call failed")
}
