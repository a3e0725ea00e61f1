// Command portal serves the user-management web client.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/infrastructure/config"
	"github.com/99minutos/user-portal/internal/infrastructure/db/redis"
	"github.com/99minutos/user-portal/internal/infrastructure/http/handlers"
	"github.com/99minutos/user-portal/internal/infrastructure/identityapi"
	"github.com/99minutos/user-portal/internal/infrastructure/storage"
	"github.com/99minutos/user-portal/internal/web"
	"github.com/99minutos/user-portal/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadPortal(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on environment")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.PortalConfig, log zerolog.Logger) error {
	api, err := identityapi.New(identityapi.Config{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}

	var (
		provider ports.StorageProvider
		checkers []handlers.Checker
	)
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		provider = storage.NewRedis(client, cfg.StorageTTL)
		checkers = append(checkers, redis.Pinger{Client: client})
	default:
		provider = storage.NewMemory()
	}

	e, err := web.NewRouter(web.Deps{
		Clients: web.NewClientRegistry(api, provider, log, web.RegistryConfig{
			IdleTTL:    cfg.ClientIdleTTL,
			MaxClients: cfg.MaxClients,
		}),
		Log:          log,
		CookieSecure: cfg.CookieSecure,
		Checkers:     checkers,
		Metrics:      true,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("api_url", api.BaseURL()).Str("storage", cfg.Storage).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
