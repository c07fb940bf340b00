package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/upb/logbridge/config"
	"github.com/upb/logbridge/observability"
)

// fileOptions returns options writing to a temporary file, and that file's path.
func fileOptions(t *testing.T) (*config.Options, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	opts := &config.Options{
		Base:   map[string]any{},
		Output: config.OutputOptions{Path: path},
	}
	return opts, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type staticFactory struct {
	opts *config.Options
	err  error
}

func (f *staticFactory) CreateLoggerOptions(ctx context.Context) (*config.Options, error) {
	return f.opts, f.err
}

type engineParams struct {
	fx.In

	Engine observability.LoggerService `name:"logger_engine"`
}
