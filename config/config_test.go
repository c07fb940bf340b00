package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upb/logbridge/utils"
)

var envKeys = []string{
	"ENVIRONMENT", "PORT", "SERVER_HOST", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_NAME", "LOG_DEVELOPMENT", "LOG_DISABLED", "LOG_INSTANCE_ID",
	"LOG_OUTPUT", "LOG_FILE_MAX_SIZE_MB", "LOG_FILE_MAX_BACKUPS", "LOG_FILE_MAX_AGE_DAYS", "LOG_FILE_COMPRESS",
	"LOG_EXTREME_ENABLED", "LOG_EXTREME_TICK", "LOG_EXTREME_BUFFER_SIZE",
}

// clearEnv blanks every variable the loader reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// emptyEnvFile keeps a local .env out of the test.
func emptyEnvFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, "empty.env", "")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.False(t, cfg.IsProduction())
				assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logger.Level)
				assert.Equal(t, "json", cfg.Logger.Format)
				assert.Equal(t, "stdout", cfg.Logger.Output.Path)
				assert.False(t, cfg.Logger.ExtremeMode.Enabled)
				assert.Equal(t, 10*time.Second, cfg.Logger.ExtremeMode.Tick)
				assert.Equal(t, 4096, cfg.Logger.ExtremeMode.BufferSize)
				assert.Nil(t, cfg.Logger.Base)
			},
		},
		{
			name: "logger overrides",
			envVars: map[string]string{
				"ENVIRONMENT":             "production",
				"LOG_LEVEL":               "debug",
				"LOG_FORMAT":              "console",
				"LOG_NAME":                "billing",
				"LOG_INSTANCE_ID":         "true",
				"LOG_EXTREME_ENABLED":     "true",
				"LOG_EXTREME_TICK":        "5s",
				"LOG_EXTREME_BUFFER_SIZE": "8192",
				"LOG_OUTPUT":              "stderr",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, "debug", cfg.Logger.Level)
				assert.Equal(t, "console", cfg.Logger.Format)
				assert.Equal(t, "billing", cfg.Logger.Name)
				assert.True(t, cfg.Logger.InstanceID)
				assert.True(t, cfg.Logger.ExtremeMode.Enabled)
				assert.Equal(t, 5*time.Second, cfg.Logger.ExtremeMode.Tick)
				assert.Equal(t, 8192, cfg.Logger.ExtremeMode.BufferSize)
				assert.Equal(t, "stderr", cfg.Logger.Output.Path)
			},
		},
		{
			name: "malformed numbers keep defaults",
			envVars: map[string]string{
				"LOG_EXTREME_TICK":        "soon",
				"LOG_EXTREME_BUFFER_SIZE": "big",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultExtremeTick, cfg.Logger.ExtremeMode.Tick)
				assert.Equal(t, DefaultExtremeBufferSize, cfg.Logger.ExtremeMode.BufferSize)
			},
		},
		{
			name: "PORT takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":        "9443",
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name:    "invalid level",
			envVars: map[string]string{"LOG_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			envVars: map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name: "development logger in production",
			envVars: map[string]string{
				"ENVIRONMENT":     "prod",
				"LOG_DEVELOPMENT": "true",
			},
			wantErr: true,
		},
		{
			name:    "negative buffer size",
			envVars: map[string]string{"LOG_EXTREME_BUFFER_SIZE": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := New(context.Background(), "", emptyEnvFile(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, utils.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestNew_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are present, even when empty.
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	envFile := writeFile(t, "test.env", "LOG_LEVEL=warn\nSERVER_PORT=7070\n")

	cfg, err := New(context.Background(), "", envFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestNew_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, err := New(context.Background(), "", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load env file")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadOptions(context.Background(), "", emptyEnvFile(t), missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptions_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "logger.yaml", `
level: trace
format: console
development: true
base: {}
output:
  path: /var/log/app.log
  max_size_mb: 10
  compress: true
sampling:
  initial: 100
  thereafter: 10
extreme_mode:
  enabled: true
  tick: 5s
`)

	opts, err := LoadOptions(context.Background(), path, emptyEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "trace", opts.Level)
	assert.Equal(t, "console", opts.Format)
	assert.True(t, opts.Development)
	assert.NotNil(t, opts.Base)
	assert.Empty(t, opts.Base)
	assert.Equal(t, "/var/log/app.log", opts.Output.Path)
	assert.Equal(t, 10, opts.Output.MaxSizeMB)
	assert.True(t, opts.Output.Compress)
	require.NotNil(t, opts.Sampling)
	assert.Equal(t, 100, opts.Sampling.Initial)
	assert.True(t, opts.ExtremeMode.Enabled)
	assert.Equal(t, 5*time.Second, opts.ExtremeMode.Tick)
	assert.Equal(t, DefaultExtremeBufferSize, opts.ExtremeMode.BufferSize)
}

func TestLoadOptions_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "error")
	path := writeFile(t, "logger.yaml", "level: debug\n")

	opts, err := LoadOptions(context.Background(), path, emptyEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "error", opts.Level)
}

func TestLoadOptions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "colour: red\n"},
		{name: "bad duration", content: "extreme_mode:\n  tick: soon\n"},
		{name: "bad sampling", content: "sampling:\n  initial: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, "logger.yaml", tt.content)

			_, err := LoadOptions(context.Background(), path, emptyEnvFile(t))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOptions(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadFile_Empty(t *testing.T) {
	opts := &Options{Level: "warn"}
	require.NoError(t, LoadFile(writeFile(t, "empty.yaml", ""), opts))
	assert.Equal(t, "warn", opts.Level)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, "info", opts.Level)
	assert.Equal(t, DefaultExtremeTick, opts.ExtremeMode.Tick)
}
