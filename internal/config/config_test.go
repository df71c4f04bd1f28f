package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "data/raw", cfg.Paths.RawDir)
				assert.Equal(t, "clean", cfg.Paths.CleanDir)
				assert.Equal(t, "fs", cfg.Storage.Driver)
				assert.Equal(t, "2014-07-01", cfg.Cleaning.DumpDate)
				assert.Equal(t, "2012-09-16", cfg.Cleaning.SwitchDate)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 0, cfg.Modeling.MaxParallel)
				assert.True(t, cfg.Telemetry.Metrics)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"HMIS_LOGGING_LEVEL":         "debug",
				"HMIS_PATHS_RAW_DIR":         "/mnt/raw",
				"HMIS_MODELING_MAX_PARALLEL": "4",
				"HMIS_SERVER_READ_TIMEOUT":   "30s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/mnt/raw", cfg.Paths.RawDir)
				assert.Equal(t, 4, cfg.Modeling.MaxParallel)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name:    "invalid storage driver",
			env:     map[string]string{"HMIS_STORAGE_DRIVER": "ftp"},
			wantErr: true,
		},
		{
			name:    "s3 without bucket",
			env:     map[string]string{"HMIS_STORAGE_DRIVER": "s3"},
			wantErr: true,
		},
		{
			name:    "malformed dump date",
			env:     map[string]string{"HMIS_CLEANING_DUMP_DATE": "07/01/2014"},
			wantErr: true,
		},
		{
			name:    "switch date after dump date",
			env:     map[string]string{"HMIS_CLEANING_SWITCH_DATE": "2015-01-01"},
			wantErr: true,
		},
		{
			name:    "negative parallelism",
			env:     map[string]string{"HMIS_MODELING_MAX_PARALLEL": "-1"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env:  map[string]string{"HMIS_LOGGING_LEVEL": "warn"},
			file: `
logging:
  level: error
paths:
  raw_dir: /srv/raw
storage:
  driver: s3
  s3:
    bucket: hmis-clean
server:
  read_timeout: 20s
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level, "env wins over file")
				assert.Equal(t, "/srv/raw", cfg.Paths.RawDir, "file wins over default")
				assert.Equal(t, "s3", cfg.Storage.Driver)
				assert.Equal(t, "hmis-clean", cfg.Storage.S3.Bucket)
				assert.Equal(t, "hmis/", cfg.Storage.S3.Prefix, "default kept")
				assert.True(t, cfg.Storage.S3.Enabled)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name:    "malformed config file",
			file:    "logging: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HMIS_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var file string
			if tt.file != "" {
				file = filepath.Join(t.TempDir(), "hmis.yaml")
				require.NoError(t, os.WriteFile(file, []byte(tt.file), 0644))
			} else {
				// keep the search from picking up a stray file
				t.Chdir(t.TempDir())
			}

			cfg, err := Load(file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Date(2014, 7, 1, 0, 0, 0, 0, time.UTC), cfg.Cleaning.DumpTime())
	assert.Equal(t, time.Date(2012, 9, 16, 0, 0, 0, 0, time.UTC), cfg.Cleaning.SwitchTime())
}

func TestLoadFromEnvConfigPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("paths:\n  weka_dir: models\n"), 0644))
	t.Setenv("HMIS_CONFIG", file)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "models", cfg.Paths.WekaDir)
}
