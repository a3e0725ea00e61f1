package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// SessionContext holds the current identity of one client. It is hydrated
// once from the session store and afterwards only changes through Login,
// Logout and Refresh.
//
// The mutex keeps reads consistent; it does not order concurrent logins,
// the last one to finish wins.
type SessionContext struct {
	gateway ports.AuthGateway
	log     zerolog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool
}

// NewSessionContext builds the context and runs the one-time hydration.
func NewSessionContext(ctx context.Context, gateway ports.AuthGateway, log zerolog.Logger) *SessionContext {
	sc := &SessionContext{
		gateway: gateway,
		log:     log.With().Str("component", "session_context").Logger(),
		loading: true,
	}
	sc.hydrate(ctx)
	return sc
}

func (sc *SessionContext) hydrate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error().Interface("panic", r).Msg("session hydration failed")
		}
		sc.mu.Lock()
		sc.loading = false
		sc.mu.Unlock()
	}()

	identity := sc.gateway.CurrentIdentity(ctx)
	if identity == nil {
		return
	}
	if err := identity.Validate(); err != nil {
		sc.log.Warn().Err(err).Msg("discarding stored identity")
		return
	}

	sc.mu.Lock()
	sc.identity = identity
	sc.mu.Unlock()
}

// Login publishes an identity that AuthGateway.Login already persisted.
func (sc *SessionContext) Login(identity domain.Identity, _ string) {
	sc.mu.Lock()
	sc.identity = &identity
	sc.mu.Unlock()
}

// Refresh replaces the in-memory identity after the profile changed.
// It is a no-op for a logged-out client.
func (sc *SessionContext) Refresh(identity domain.Identity) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.identity == nil {
		return
	}
	sc.identity = &identity
}

// Logout clears storage through the gateway and forgets the identity.
func (sc *SessionContext) Logout(ctx context.Context) {
	sc.gateway.Logout(ctx)
	sc.mu.Lock()
	sc.identity = nil
	sc.mu.Unlock()
}

// Gateway exposes the client's gateway to handlers that need to authenticate.
func (sc *SessionContext) Gateway() ports.AuthGateway {
	return sc.gateway
}

// State returns a snapshot safe to hand to views.
func (sc *SessionContext) State() domain.SessionState {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	var identity *domain.Identity
	if sc.identity != nil {
		cp := *sc.identity
		identity = &cp
	}
	return domain.SessionState{Identity: identity, IsLoading: sc.loading}
}

func (sc *SessionContext) Identity() *domain.Identity {
	return sc.State().Identity
}

func (sc *SessionContext) IsAuthenticated() bool {
	return sc.State().IsAuthenticated()
}

func (sc *SessionContext) IsLoading() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.loading
}

type sessionContextKey struct{}

// WithSessionContext attaches sc to ctx.
func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sc)
}

// SessionContextFrom returns the attached SessionContext or ErrNoSessionContext.
func SessionContextFrom(ctx context.Context) (*SessionContext, error) {
	sc, ok := ctx.Value(sessionContextKey{}).(*SessionContext)
	if !ok || sc == nil {
		return nil, domain.ErrNoSessionContext
	}
	return sc, nil
}
