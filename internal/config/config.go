package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/posting-planner/internal/source"
)

// AppConfig is the planner configuration file
type AppConfig struct {
	Server   ServerConfig      `toml:"server"`
	Defaults DefaultsConfig    `toml:"defaults"`
	Cities   []string          `toml:"cities"`
	Sources  []source.Source   `toml:"sources"`
	Columns  map[string]string `toml:"columns"`
	Postgres PostgresConfig    `toml:"postgres"`
	Features FeatureConfig     `toml:"features"`
	Debug    bool              `toml:"debug"`
	// AllowEmptyStart lets the server start with an empty dataset when a
	// mandatory source cannot be loaded
	AllowEmptyStart bool `toml:"allow_empty_start"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DefaultsConfig holds the initial form values
type DefaultsConfig struct {
	UnitPrice float64 `toml:"unit_price"`
	RadiusKm  float64 `toml:"radius_km"`
}

// PostgresConfig enables an address table read from Postgres
type PostgresConfig struct {
	Enabled   bool   `toml:"enabled"`
	URL       string `toml:"url"`
	Table     string `toml:"table"`
	Mandatory bool   `toml:"mandatory"`
}

// FeatureConfig toggles optional endpoints
type FeatureConfig struct {
	ExportEnabled bool `toml:"export_enabled"`
	MergeEnabled  bool `toml:"merge_enabled"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Defaults: DefaultsConfig{
			UnitPrice: 10.0,
			RadiusKm:  3.0,
		},
		Cities: []string{"加古川市", "姫路市", "神戸市", "西宮市", "高砂市", "明石市"},
		Sources: []source.Source{
			{Path: "data/kakogawa.csv", Mandatory: true},
			{Path: "data/himeji.csv", Mandatory: true},
			{Path: "data/kobe.csv"},
			{Path: "data/nishinomiya.csv"},
			{Path: "data/takasago.csv"},
			{Path: "data/akashi.csv"},
		},
		Columns: map[string]string{
			"住所（スプレッドシート用）": "address",
			"世帯数":           "households",
			"Latitude":      "latitude",
			"Longitude":     "longitude",
		},
		Postgres: PostgresConfig{
			Table: "addresses",
		},
		Features: FeatureConfig{
			ExportEnabled: true,
			MergeEnabled:  true,
		},
	}
}

// Load reads a TOML config file on top of the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		// lists in the file replace the defaults instead of extending them
		if _, ok := raw["sources"]; ok {
			cfg.Sources = nil
		}
		if _, ok := raw["cities"]; ok {
			cfg.Cities = nil
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	c.Server.Host = GetEnv("WEB_HOST", c.Server.Host)
	c.Server.Port = GetEnvInt("WEB_PORT", c.Server.Port)
	c.Defaults.UnitPrice = GetEnvFloat("PLANNER_UNIT_PRICE", c.Defaults.UnitPrice)
	c.Defaults.RadiusKm = GetEnvFloat("PLANNER_RADIUS_KM", c.Defaults.RadiusKm)
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Postgres.URL = url
		c.Postgres.Enabled = true
	}
	c.Debug = GetEnvBool("DEBUG", c.Debug)
}

// Validate rejects settings the planner cannot run with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Defaults.UnitPrice <= 0 {
		return fmt.Errorf("default unit_price must be positive, got %v", c.Defaults.UnitPrice)
	}
	if c.Defaults.RadiusKm <= 0 {
		return fmt.Errorf("default radius_km must be positive, got %v", c.Defaults.RadiusKm)
	}
	for i, s := range c.Sources {
		if s.Path == "" && s.Table == "" {
			return fmt.Errorf("source %d has neither path nor table", i)
		}
	}
	return nil
}

// AllSources returns the file sources followed by the Postgres table when enabled
func (c *AppConfig) AllSources() []source.Source {
	out := append([]source.Source(nil), c.Sources...)
	if c.Postgres.Enabled && c.Postgres.Table != "" {
		out = append(out, source.Source{
			Name:      "postgres:" + c.Postgres.Table,
			Table:     c.Postgres.Table,
			Mandatory: c.Postgres.Mandatory,
		})
	}
	return out
}

// Addr returns the listen address
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
