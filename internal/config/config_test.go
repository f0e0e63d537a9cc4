package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.View.FrameInterval != 16*time.Millisecond {
		t.Errorf("Expected FrameInterval 16ms, got %v", cfg.View.FrameInterval)
	}
	if cfg.View.EnergyHistory != 120 {
		t.Errorf("Expected EnergyHistory 120, got %d", cfg.View.EnergyHistory)
	}
	if cfg.Layout.Width != 800 || cfg.Layout.Height != 550 {
		t.Errorf("Expected 800x550 canvas, got %vx%v", cfg.Layout.Width, cfg.Layout.Height)
	}
	if cfg.View.Filter != "all" {
		t.Errorf("Expected filter 'all', got '%s'", cfg.View.Filter)
	}
	if cfg.Sources.RefreshInterval != 0 {
		t.Error("Expected polling disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{"valid default config", Default(), ""},
		{"zero width", Default().withLayout(func(l *LayoutConfig) { l.Width = 0 }), "Layout.Width"},
		{"damping above one", Default().withLayout(func(l *LayoutConfig) { l.Damping = 1.5 }), "Layout.Damping"},
		{"negative repulsion", Default().withLayout(func(l *LayoutConfig) { l.Repulsion = -1 }), "Layout.Repulsion"},
		{"margin eats canvas", Default().withLayout(func(l *LayoutConfig) { l.Margin = 400 }), "Layout.Margin"},
		{"unknown filter", Default().WithFilter("severe"), "View.Filter"},
		{"bad log level", func() Config { c := Default(); c.Log.Level = "loud"; return c }(), "Log.Level"},
		{"zero frame interval", func() Config { c := Default(); c.View.FrameInterval = 0; return c }(), "View.FrameInterval"},
		{"bad neo4j uri", Default().WithNeo4j("not a uri", "", "", ""), "Sources.Neo4j.URI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %v", err)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func (c Config) withLayout(f func(*LayoutConfig)) Config {
	f(&c.Layout)
	return c
}

func TestWithModifiers(t *testing.T) {
	base := Default()
	cfg := base.
		WithFile("data.json").
		WithDuckDB("fraud.duckdb").
		WithNeo4j("neo4j://localhost:7687", "neo4j", "secret", "fraud").
		WithRefresh(5 * time.Second).
		WithSeed(9).
		WithFilter(" High ").
		WithLogFile("")

	assert.Equal(t, "data.json", cfg.Sources.File)
	assert.Equal(t, "fraud.duckdb", cfg.Sources.DuckDB.Path)
	assert.Equal(t, "fraud", cfg.Sources.Neo4j.Database)
	assert.Equal(t, 5*time.Second, cfg.Sources.RefreshInterval)
	assert.Equal(t, uint64(9), cfg.Params().Seed)
	assert.Equal(t, "high", cfg.View.Filter)
	assert.Empty(t, cfg.Log.File)
	assert.NoError(t, cfg.Validate())

	assert.Empty(t, base.Sources.File, "modifiers must not touch the receiver")
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraudnet.toml")
	body := `
[layout]
repulsion = 1800.0
seed = 3

[view]
frame_interval = "33ms"
filter = "critical"

[sources]
file = "from-file.json"
refresh_interval = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("FRAUDNET_FILE", "from-env.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, cfg.Layout.Repulsion)
	assert.Equal(t, 550.0, cfg.Layout.Height, "unset keys keep defaults")
	assert.Equal(t, 33*time.Millisecond, cfg.View.FrameInterval)
	assert.Equal(t, "critical", cfg.View.Filter)
	assert.Equal(t, 10*time.Second, cfg.Sources.RefreshInterval)
	assert.Equal(t, "from-env.json", cfg.Sources.File, "environment wins over the file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv("FRAUDNET_REFRESH", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "FRAUDNET_REFRESH")
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "TestField", Message: "test message"}
	expected := "config error: TestField test message"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}
