package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends for the portal's client-local storage.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Account stores for the development identity API.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// PortalConfig configures cmd/portal.
type PortalConfig struct {
	Port     string `env:"PORTAL_PORT, default=3000"`
	Env      string `env:"ENV,         default=development"`
	LogLevel string `env:"LOG_LEVEL,   default=info"`

	APIURL     string        `env:"API_URL,            default=http://localhost:3001/api"`
	APITimeout time.Duration `env:"PORTAL_API_TIMEOUT, default=10s"`

	Storage    string        `env:"PORTAL_STORAGE,     default=memory"`
	StorageTTL time.Duration `env:"PORTAL_STORAGE_TTL, default=720h"`

	CookieSecure bool `env:"PORTAL_COOKIE_SECURE, default=false"`

	ClientIdleTTL time.Duration `env:"PORTAL_CLIENT_IDLE_TTL, default=30m"`
	MaxClients    int           `env:"PORTAL_MAX_CLIENTS,     default=10000"`

	Redis RedisConfig
}

// APIConfig configures cmd/identity-api.
type APIConfig struct {
	Port      string        `env:"PORT,      default=3001"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	BasePath  string        `env:"API_BASE_PATH, default=/api"`
	Store     string        `env:"API_STORE, default=memory"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether pretty console logging should be used.
func (c *PortalConfig) IsDevelopment() bool { return c.Env == "development" }

func (c *APIConfig) IsDevelopment() bool { return c.Env == "development" }

// LoadPortal reads the portal configuration from environment variables.
func LoadPortal(ctx context.Context) (*PortalConfig, error) {
	return LoadPortalFrom(ctx, envconfig.OsLookuper())
}

// LoadPortalFrom is LoadPortal with an explicit variable source.
func LoadPortalFrom(ctx context.Context, l envconfig.Lookuper) (*PortalConfig, error) {
	var cfg PortalConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.Storage {
	case StorageMemory, StorageRedis:
	default:
		return nil, fmt.Errorf("config: PORTAL_STORAGE must be %q or %q, got %q", StorageMemory, StorageRedis, cfg.Storage)
	}
	return &cfg, nil
}

// LoadAPI reads the identity API configuration from environment variables.
func LoadAPI(ctx context.Context) (*APIConfig, error) {
	return LoadAPIFrom(ctx, envconfig.OsLookuper())
}

// LoadAPIFrom is LoadAPI with an explicit variable source.
func LoadAPIFrom(ctx context.Context, l envconfig.Lookuper) (*APIConfig, error) {
	var cfg APIConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.Store {
	case StoreMemory, StoreMongo:
	default:
		return nil, fmt.Errorf("config: API_STORE must be %q or %q, got %q", StoreMemory, StoreMongo, cfg.Store)
	}
	return &cfg, nil
}
