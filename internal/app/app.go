// Package app wires configuration, storage, services, and transport into
// a runnable server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/victorylog-backend/internal/adapter/postgres"
	aggregaterepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/aggregate"
	entryrepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/entry"
	tokenrepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/user"
	internalauth "github.com/heartmarshall/victorylog-backend/internal/auth"
	"github.com/heartmarshall/victorylog-backend/internal/config"
	"github.com/heartmarshall/victorylog-backend/internal/service/activity"
	authservice "github.com/heartmarshall/victorylog-backend/internal/service/auth"
	userservice "github.com/heartmarshall/victorylog-backend/internal/service/user"
	"github.com/heartmarshall/victorylog-backend/internal/transport/middleware"
	"github.com/heartmarshall/victorylog-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, applies
// migrations, wires repositories and services, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := migrate(ctx, cfg.Database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	entries := entryrepo.New(pool)
	aggregates := aggregaterepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	jwt := internalauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authSvc := authservice.NewService(logger, users, users, tokens, tx, jwt, cfg.Auth)
	userSvc := userservice.NewService(logger, users, users)
	activitySvc := activity.NewService(logger, entries, aggregates, users, tx, cfg.Activity)

	router := rest.NewRouter(rest.Handlers{
		Auth:     rest.NewAuthHandler(authSvc, logger),
		Entries:  rest.NewEntryHandler(activitySvc, logger),
		Stats:    rest.NewStatsHandler(activitySvc, logger),
		Settings: rest.NewSettingsHandler(userSvc, logger),
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
		limiter.Limit(300),
		middleware.Auth(authSvc),
	)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// migrate applies pending goose migrations using database/sql (goose
// requires *sql.DB).
func migrate(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(cfg.MigrationsDir))
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, r := range results {
		slog.Info("migration applied", slog.String("source", r.Source.Path))
	}
	return nil
}
