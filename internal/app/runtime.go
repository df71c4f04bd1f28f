package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hmiscli/internal/blob"
	"hmiscli/internal/config"
	"hmiscli/internal/infrastructure"
	"hmiscli/internal/store"
)

// Runtime is the shared setup of the command line tools
type Runtime struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Store     *store.TableStore
}

// Bootstrap loads configuration, then starts logging, telemetry, and the
// table store. The caller must Close the runtime.
func Bootstrap(ctx context.Context, configFile string) (*Runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return NewRuntime(ctx, cfg)
}

// NewRuntime builds a runtime from an already loaded configuration
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths.LogPathResolution()

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.Open(ctx, cfg.Storage, paths.CleanDir)
	if err != nil {
		tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	opts := []store.Option{store.WithLogger(logger)}
	if paths.SQLitePath != "" {
		sqlite, err := store.NewSQLiteExporter(paths.SQLitePath)
		if err != nil {
			tel.Shutdown(ctx)
			return nil, err
		}
		opts = append(opts, store.WithSQLite(sqlite))
	}

	return &Runtime{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: tel,
		Store:     store.New(blobs, opts...),
	}, nil
}

// Close flushes telemetry and releases the store
func (r *Runtime) Close(ctx context.Context) error {
	return errors.Join(
		r.Store.Close(),
		r.Telemetry.Shutdown(ctx),
		infrastructure.CloseLogFile(),
	)
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
