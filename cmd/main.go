// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/database"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/handler"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/logger"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/registry"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Seed the registry ─────────────────────────────────────────────
	seed, err := loadSeed(cfg.Registry)
	if err != nil {
		return err
	}
	reg := registry.New(seed)
	log.Info("registry seeded",
		zap.Int("activities", len(seed)),
		zap.Strings("names", reg.Names()),
	)

	// ── 2. Connect the audit trail ───────────────────────────────────────
	audit, closeAudit, err := openAuditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	log.Info("audit sink ready", zap.String("driver", audit.Driver()))

	// ── 3. Wire up layers ────────────────────────────────────────────────
	svc := service.NewActivityService(reg, audit, log, service.WithAuditTimeout(cfg.Audit.Timeout()))
	activityHandler := handler.NewActivityHandler(svc, log)

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(activityHandler, log, cfg.Server.StaticDir),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func loadSeed(cfg config.RegistryConfig) (map[string]model.Activity, error) {
	if cfg.SeedFile == "" {
		return registry.DefaultSeed(), nil
	}
	return registry.LoadSeedFile(cfg.SeedFile)
}

// openAuditSink connects the configured audit backend and returns a
// function releasing its connections.
func openAuditSink(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.AuditSink, func(), error) {
	switch cfg.Audit.Driver {
	case config.AuditDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database.Postgres, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		repo := repository.NewSignupLogRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case config.AuditDriverRedis:
		rdb, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		sink := repository.NewRedisAuditSink(rdb, cfg.Audit.Stream, cfg.Audit.MaxLen)
		return sink, func() { _ = rdb.Close() }, nil

	default:
		return repository.NopAuditSink{}, func() {}, nil
	}
}
