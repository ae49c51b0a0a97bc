package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/omenapps/adminsort/internal/reorder"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, []string{"index", "app_list"}, cfg.Reorder.ValidURLNames)
	require.False(t, cfg.Reorder.AppendUnrepresented)
	require.Equal(t, ":8084", cfg.Server.Addr)
	require.False(t, cfg.Log.Enabled)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestValidateReorder(t *testing.T) {
	cfg := Defaults().Reorder
	cfg.Apps = []any{"blog", map[string]any{"app": "auth", "label": "Authorization"}}
	require.NoError(t, ValidateReorder(cfg))
}

func TestValidateReorder_MissingApps(t *testing.T) {
	err := ValidateReorder(Defaults().Reorder)
	require.ErrorIs(t, err, reorder.ErrConfig)
}

func TestValidateReorder_MalformedEntry(t *testing.T) {
	cfg := Defaults().Reorder
	cfg.Apps = []any{42}
	require.ErrorIs(t, ValidateReorder(cfg), reorder.ErrConfig)
}

func TestValidateReorder_EmptyURLName(t *testing.T) {
	cfg := Defaults().Reorder
	cfg.Apps = []any{"blog"}
	cfg.ValidURLNames = []string{"index", ""}
	require.Error(t, ValidateReorder(cfg))
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(Defaults().Tracing))

	cfg := Defaults().Tracing
	cfg.SampleRate = 1.5
	require.Error(t, ValidateTracing(cfg))

	cfg = Defaults().Tracing
	cfg.Exporter = "jaeger"
	require.Error(t, ValidateTracing(cfg))

	cfg = Defaults().Tracing
	cfg.Enabled = true
	cfg.Exporter = "file"
	cfg.FilePath = ""
	require.Error(t, ValidateTracing(cfg))

	cfg = Defaults().Tracing
	cfg.Enabled = true
	cfg.Exporter = "otlp"
	cfg.OTLPEndpoint = ""
	require.Error(t, ValidateTracing(cfg))
}

func TestValidateLog(t *testing.T) {
	require.NoError(t, ValidateLog(LogConfig{}))
	require.NoError(t, ValidateLog(LogConfig{Level: "warn"}))
	require.Error(t, ValidateLog(LogConfig{Level: "verbose"}))
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	// The commented template must stay loadable and agree with Defaults()
	// for everything it sets.
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, []any{"blog"}, cfg.Reorder.Apps)
	require.Equal(t, ":8084", cfg.Server.Addr)
	require.False(t, cfg.Log.Enabled)
	require.NoError(t, ValidateReorder(cfg.Reorder))
	require.NoError(t, ValidateLog(cfg.Log))
	require.NoError(t, ValidateTracing(cfg.Tracing))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultTracesFilePath(t *testing.T) {
	path := DefaultTracesFilePath()
	if path == "" {
		t.Skip("no home directory in test environment")
	}
	require.Contains(t, path, filepath.Join("adminsort", "traces"))
}
