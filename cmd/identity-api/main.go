// Command identity-api serves the development identity API the portal talks to.
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

	"github.com/99minutos/user-portal/internal/api"
	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/infrastructure/config"
	"github.com/99minutos/user-portal/internal/infrastructure/db/memory"
	"github.com/99minutos/user-portal/internal/infrastructure/db/mongo"
	"github.com/99minutos/user-portal/internal/infrastructure/http/handlers"
	"github.com/99minutos/user-portal/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPI(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identity-api",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on environment")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("identity api stopped")
	}
}

func run(ctx context.Context, cfg *config.APIConfig, log zerolog.Logger) error {
	seed, err := memory.DefaultAccounts()
	if err != nil {
		return err
	}

	var (
		users    ports.UserRepository
		checkers []handlers.Checker
	)
	switch cfg.Store {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := repo.Seed(ctx, seed); err != nil {
			return err
		}
		users = repo
		checkers = append(checkers, mongo.Pinger{DB: db})
	default:
		users = memory.NewUserRepository(seed...)
	}

	e := api.NewRouter(api.Deps{
		Users:     users,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		BasePath:  cfg.BasePath,
		Log:       log,
		Checkers:  checkers,
		Metrics:   true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("identity api listening")
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
