// Package config holds fraudnet's tunables. Defaults come from Default(),
// a TOML file may override them, and FRAUDNET_* environment variables
// override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"fraudnet/internal/layout"
)

// Config aggregates application configuration values.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	View    ViewConfig    `toml:"view"`
	Sources SourcesConfig `toml:"sources"`
	Log     LogConfig     `toml:"log"`
}

// LayoutConfig tunes the force model; see layout.Params.
type LayoutConfig struct {
	Width        float64 `toml:"width" validate:"gt=0"`
	Height       float64 `toml:"height" validate:"gt=0"`
	Margin       float64 `toml:"margin" validate:"gte=0"`
	Repulsion    float64 `toml:"repulsion" validate:"gte=0"`
	RingCohesion float64 `toml:"ring_cohesion" validate:"gte=0"`
	SpringK      float64 `toml:"spring_k" validate:"gte=0"`
	RestLength   float64 `toml:"rest_length" validate:"gte=0"`
	Gravity      float64 `toml:"gravity" validate:"gte=0"`
	Damping      float64 `toml:"damping" validate:"gt=0,lte=1"`
	MaxSpeed     float64 `toml:"max_speed" validate:"gt=0"`
	Seed         uint64  `toml:"seed"` // 0 = random
}

// ViewConfig controls the terminal front end.
type ViewConfig struct {
	FrameInterval time.Duration `toml:"frame_interval" validate:"gt=0"`  // default: 16ms
	EnergyHistory int           `toml:"energy_history" validate:"min=2"` // samples kept by the energy chart
	PerfInterval  time.Duration `toml:"perf_interval" validate:"gt=0"`
	Filter        string        `toml:"filter" validate:"oneof=all critical high medium low"`
	ShowEnergy    bool          `toml:"show_energy"`
	ShowPerf      bool          `toml:"show_perf"`
}

// SourcesConfig selects where analyses come from. The first configured
// source wins: File, then Neo4j, then DuckDB.
type SourcesConfig struct {
	File            string        `toml:"file"`
	Neo4j           Neo4jConfig   `toml:"neo4j"`
	DuckDB          DuckDBConfig  `toml:"duckdb"`
	RefreshInterval time.Duration `toml:"refresh_interval" validate:"gte=0"` // 0 disables polling
	LoadTimeout     time.Duration `toml:"load_timeout" validate:"gt=0"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri" validate:"omitempty,uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type DuckDBConfig struct {
	Path          string `toml:"path"`
	Threads       int    `toml:"threads" validate:"gte=0"`         // 0 = DuckDB default
	MemoryLimitGB int    `toml:"memory_limit_gb" validate:"gte=0"` // 0 = DuckDB default
}

// LogConfig controls structured logging settings.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"oneof=text json"`
	File   string `toml:"file"` // empty = stderr
}

const (
	defaultFrameInterval = 16 * time.Millisecond
	defaultEnergyHistory = 120
	defaultPerfInterval  = time.Second
	defaultLoadTimeout   = 30 * time.Second
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultLogFile       = "fraudnet.log"
)

// Default returns a Config with sensible defaults.
func Default() Config {
	p := layout.DefaultParams()
	return Config{
		Layout: LayoutConfig{
			Width:        p.Width,
			Height:       p.Height,
			Margin:       p.Margin,
			Repulsion:    p.Repulsion,
			RingCohesion: p.RingCohesion,
			SpringK:      p.SpringK,
			RestLength:   p.RestLength,
			Gravity:      p.Gravity,
			Damping:      p.Damping,
			MaxSpeed:     p.MaxSpeed,
			Seed:         p.Seed,
		},
		View: ViewConfig{
			FrameInterval: defaultFrameInterval,
			EnergyHistory: defaultEnergyHistory,
			PerfInterval:  defaultPerfInterval,
			Filter:        "all",
			ShowEnergy:    true,
			ShowPerf:      true,
		},
		Sources: SourcesConfig{
			LoadTimeout: defaultLoadTimeout,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile,
		},
	}
}

// Load reads path over the defaults, then applies the environment. A
// missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from FRAUDNET_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Sources.File = valueOrDefault("FRAUDNET_FILE", c.Sources.File)
	c.Sources.Neo4j.URI = valueOrDefault("FRAUDNET_NEO4J_URI", c.Sources.Neo4j.URI)
	c.Sources.Neo4j.Username = valueOrDefault("FRAUDNET_NEO4J_USER", c.Sources.Neo4j.Username)
	c.Sources.Neo4j.Password = valueOrDefault("FRAUDNET_NEO4J_PASSWORD", c.Sources.Neo4j.Password)
	c.Sources.Neo4j.Database = valueOrDefault("FRAUDNET_NEO4J_DATABASE", c.Sources.Neo4j.Database)
	c.Sources.DuckDB.Path = valueOrDefault("FRAUDNET_DUCKDB", c.Sources.DuckDB.Path)
	c.Log.Level = valueOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = valueOrDefault("LOG_FORMAT", c.Log.Format)
	c.Log.File = valueOrDefault("FRAUDNET_LOG_FILE", c.Log.File)
	c.Layout.Seed = parseUintWithDefault("FRAUDNET_SEED", c.Layout.Seed)

	if v := os.Getenv("FRAUDNET_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FRAUDNET_REFRESH: %w", err)
		}
		c.Sources.RefreshInterval = d
	}
	return nil
}

// Params converts the layout section for the simulation.
func (c Config) Params() layout.Params {
	l := c.Layout
	return layout.Params{
		Width:        l.Width,
		Height:       l.Height,
		Margin:       l.Margin,
		Repulsion:    l.Repulsion,
		RingCohesion: l.RingCohesion,
		SpringK:      l.SpringK,
		RestLength:   l.RestLength,
		Gravity:      l.Gravity,
		Damping:      l.Damping,
		MaxSpeed:     l.MaxSpeed,
		Seed:         l.Seed,
	}
}

// WithFile returns a copy of the config reading analyses from a JSON file.
func (c Config) WithFile(path string) Config {
	c.Sources.File = path
	return c
}

// WithNeo4j returns a copy of the config with Neo4j connection settings.
func (c Config) WithNeo4j(uri, user, password, database string) Config {
	c.Sources.Neo4j = Neo4jConfig{URI: uri, Username: user, Password: password, Database: database}
	return c
}

// WithDuckDB returns a copy of the config with a DuckDB database path.
func (c Config) WithDuckDB(path string) Config {
	c.Sources.DuckDB.Path = path
	return c
}

// WithRefresh returns a copy of the config with a source polling interval.
func (c Config) WithRefresh(d time.Duration) Config {
	c.Sources.RefreshInterval = d
	return c
}

// WithSeed returns a copy of the config with a fixed layout seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Layout.Seed = seed
	return c
}

// WithFilter returns a copy of the config with an initial risk filter.
func (c Config) WithFilter(filter string) Config {
	c.View.Filter = strings.ToLower(strings.TrimSpace(filter))
	return c
}

// WithLogFile returns a copy of the config logging to path.
func (c Config) WithLogFile(path string) Config {
	c.Log.File = path
	return c
}

var validate = validator.New()

// Validate checks the configuration and returns a *ConfigError naming the
// first offending field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Layout.Width <= 2*c.Layout.Margin || c.Layout.Height <= 2*c.Layout.Margin {
		return &ConfigError{Field: "Layout.Margin", Message: "must leave room inside the canvas"}
	}
	return nil
}

func formatValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	e := errs[0]
	field := strings.TrimPrefix(e.StructNamespace(), "Config.")
	switch e.Tag() {
	case "gt":
		return &ConfigError{Field: field, Message: "must be greater than " + e.Param()}
	case "gte", "min":
		return &ConfigError{Field: field, Message: "must be at least " + e.Param()}
	case "lte", "max":
		return &ConfigError{Field: field, Message: "must not exceed " + e.Param()}
	case "oneof":
		return &ConfigError{Field: field, Message: "must be one of: " + e.Param()}
	case "uri":
		return &ConfigError{Field: field, Message: "must be a URI"}
	default:
		return &ConfigError{Field: field, Message: "failed " + e.Tag()}
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseUintWithDefault(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseUint(v, 10, 64); err == nil {
			return val
		}
	}
	return fallback
}
