package web

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/infrastructure/storage"
)

const (
	defaultIdleTTL    = 30 * time.Minute
	defaultMaxClients = 10000
	hydrateTimeout    = 5 * time.Second
	sweepEvery        = time.Minute
)

// RegistryConfig bounds the in-process client cache. An evicted client is
// hydrated again from its storage on its next request.
type RegistryConfig struct {
	// IdleTTL evicts clients not seen for this long. Zero means 30m.
	IdleTTL time.Duration
	// MaxClients caps the cache; the least recently seen client goes first.
	// Zero means 10000.
	MaxClients int
}

// client bundles the per-browser collaborators, all built over the same
// session store.
type client struct {
	session   *service.SessionContext
	directory *service.UserDirectory
	lastSeen  time.Time
}

// ClientRegistry creates the collaborators of a client on first sight and
// reuses them for every later request of that client while it stays cached.
type ClientRegistry struct {
	api       ports.IdentityAPI
	storage   ports.StorageProvider
	validator *service.FormValidator
	log       zerolog.Logger
	cfg       RegistryConfig
	now       func() time.Time

	hydrating singleflight.Group

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func NewClientRegistry(api ports.IdentityAPI, provider ports.StorageProvider, log zerolog.Logger, cfg RegistryConfig) *ClientRegistry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = defaultMaxClients
	}
	return &ClientRegistry{
		api:       api,
		storage:   provider,
		validator: service.NewFormValidator(),
		log:       log,
		cfg:       cfg,
		now:       time.Now,
		clients:   make(map[string]*client),
	}
}

func (r *ClientRegistry) get(ctx context.Context, clientID string) *client {
	if cl := r.lookup(clientID); cl != nil {
		return cl
	}

	// Hydration runs outside r.mu; concurrent first requests of one client share it.
	v, _, _ := r.hydrating.Do(clientID, func() (any, error) {
		if cl := r.lookup(clientID); cl != nil {
			return cl, nil
		}
		cl := r.build(ctx, clientID)
		r.insert(clientID, cl)
		return cl, nil
	})
	return v.(*client)
}

// lookup returns a live cached client and marks it seen.
func (r *ClientRegistry) lookup(clientID string) *client {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.clients[clientID]
	if !ok {
		return nil
	}
	now := r.now()
	if now.Sub(cl.lastSeen) > r.cfg.IdleTTL {
		delete(r.clients, clientID)
		return nil
	}
	cl.lastSeen = now
	return cl
}

// build hydrates detached from the request, so a cancelled first request
// cannot leave the client logged out.
func (r *ClientRegistry) build(ctx context.Context, clientID string) *client {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateTimeout)
	defer cancel()

	log := r.log.With().Str("client_id", clientID).Logger()
	store := storage.NewSessionStore(r.storage.Scope(clientID), log)
	gateway := service.NewAuthGateway(r.api, store, r.validator, log)
	return &client{
		session:   service.NewSessionContext(hctx, gateway, log),
		directory: service.NewUserDirectory(r.api, store, r.validator, log),
	}
}

func (r *ClientRegistry) insert(clientID string, cl *client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= sweepEvery {
		for id, other := range r.clients {
			if now.Sub(other.lastSeen) > r.cfg.IdleTTL {
				delete(r.clients, id)
			}
		}
		r.lastSweep = now
	}
	for len(r.clients) >= r.cfg.MaxClients {
		r.evictOldest()
	}

	cl.lastSeen = now
	r.clients[clientID] = cl
}

// evictOldest must be called with r.mu held.
func (r *ClientRegistry) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, cl := range r.clients {
		if oldestID == "" || cl.lastSeen.Before(oldest) {
			oldestID, oldest = id, cl.lastSeen
		}
	}
	delete(r.clients, oldestID)
	r.log.Debug().Str("client_id", oldestID).Msg("client evicted")
}

// Session implements middleware.Sessions.
func (r *ClientRegistry) Session(ctx context.Context, clientID string) *service.SessionContext {
	return r.get(ctx, clientID).session
}

// Directory implements handler.Directories.
func (r *ClientRegistry) Directory(ctx context.Context, clientID string) *service.UserDirectory {
	return r.get(ctx, clientID).directory
}

// Forget drops a client from the cache. Called on logout.
func (r *ClientRegistry) Forget(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, clientID)
}

// Len reports how many clients are cached.
func (r *ClientRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
