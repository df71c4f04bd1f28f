package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmiscli/internal/config"
	"hmiscli/internal/infrastructure"
	"hmiscli/internal/modeling"
)

func TestStatusServerLifecycle(t *testing.T) {
	tel, err := infrastructure.InitializeTelemetry(config.TelemetryConfig{
		ServiceName:   "hmis-test",
		TraceExporter: "none",
		Metrics:       true,
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	tracker := modeling.NewTracker([]modeling.Model{{Name: "m"}})
	srv := NewStatusServer(config.ServerConfig{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, tracker, tel, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx, cancel))

	for _, path := range []string{"/healthz", "/models", "/models/m", "/metrics"} {
		resp, err := http.Get("http://" + srv.Addr() + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	require.NoError(t, srv.Stop(context.Background()))
	_, err = http.Get("http://" + srv.Addr() + "/healthz")
	assert.Error(t, err)
}

func TestStatusServerBadAddr(t *testing.T) {
	srv := NewStatusServer(config.ServerConfig{Addr: "256.0.0.1:bad"}, modeling.NewTracker(nil), nil, nil)
	assert.Error(t, srv.Start(context.Background(), nil))
}

func TestNewRuntime(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	defer infrastructure.ResetLoggerForTesting()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Paths.SQLitePath = "clean/hmis.db"
	cfg.Telemetry.Metrics = false

	ctx := context.Background()
	rt, err := NewRuntime(ctx, cfg)
	require.NoError(t, err)

	assert.DirExists(t, rt.Paths.PicklesDir)
	assert.DirExists(t, rt.Paths.WekaDir)
	saved, err := rt.Store.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
	require.NoError(t, rt.Close(ctx))
}

func TestNewRuntimeUnknownDriver(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	defer infrastructure.ResetLoggerForTesting()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Storage.Driver = "ftp"
	_, err := NewRuntime(context.Background(), cfg)
	assert.Error(t, err)
}
