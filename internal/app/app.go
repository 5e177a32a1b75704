// Package app assembles the soundboard server from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Evman90/soundboardmaker/internal/adapter/blob"
	"github.com/Evman90/soundboardmaker/internal/adapter/memory"
	"github.com/Evman90/soundboardmaker/internal/adapter/postgres"
	"github.com/Evman90/soundboardmaker/internal/config"
	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/archive"
	"github.com/Evman90/soundboardmaker/internal/service/profile"
	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
	"github.com/Evman90/soundboardmaker/internal/transport/middleware"
	"github.com/Evman90/soundboardmaker/internal/transport/rest"
)

// rateLimiterIdle is how long a client's write bucket survives unused.
const rateLimiterIdle = 10 * time.Minute

// store is a soundboard backend that can report its health.
type store interface {
	domain.SoundboardStore
	Ping(ctx context.Context) error
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// the server down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	logger, logCloser := NewLogger(cfg.Log)
	defer logCloser.Close() //nolint:errcheck

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store", cfg.Store.Backend),
	)

	handler, cleanup, err := NewHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// NewHandler wires the store, services, handlers and middleware. The
// returned cleanup releases the store and background workers.
func NewHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := blob.New(cfg.Storage.UploadsDir)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("uploads: %w", err)
	}

	profiles, err := archive.NewService(logger, cfg.Storage.ProfilesDir, cfg.Storage.MaxProfileBytes)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("profiles: %w", err)
	}

	limiter := middleware.NewRateLimiter(rateLimiterIdle)
	cleanup := func() {
		limiter.Stop()
		closeStore()
	}

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(map[string]rest.Pinger{
			"store":   st,
			"uploads": blobs,
		}, BuildVersion()),
		Soundboard: rest.NewSoundboardHandler(soundboard.NewService(logger, st, blobs), logger),
		Profile:    rest.NewProfileHandler(profile.NewService(logger, st, blobs), profiles, logger),
		Uploads:    rest.NewUploadsHandler(blobs, logger),
	}, rest.Limits{
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		MaxImportBytes: cfg.Storage.MaxImportBytes,
		WriteLimit:     limiter.Limit(cfg.Server.WriteRatePerMinute),
	})

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	return handler, cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("database migrated", slog.Int("applied", applied))
		}
		return postgres.New(pool), pool.Close, nil
	case config.BackendMemory:
		logger.Warn("using in-memory store; soundboard state is lost on restart")
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
