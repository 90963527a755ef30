package web

import (
	"github.com/posting-planner/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Defaults DefaultsConfig `json:"defaults"`
	Features FeatureConfig  `json:"features"`
	Cities   []string       `json:"cities"`
	// Aliases rename uploaded header columns to canonical names
	Aliases        map[string]string `json:"aliases"`
	MaxUploadBytes int64             `json:"max_upload_bytes"`
	Debug          bool              `json:"debug"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DefaultsConfig holds the values used when a request omits them
type DefaultsConfig struct {
	UnitPrice float64 `json:"unit_price"`
	RadiusKm  float64 `json:"radius_km"`
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	ExportEnabled bool `json:"export_enabled"`
	MergeEnabled  bool `json:"merge_enabled"`
}

// FromAppConfig derives the server configuration from the planner config file
func FromAppConfig(app *config.AppConfig) *Config {
	return &Config{
		Server: ServerConfig{
			Port: app.Server.Port,
			Host: app.Server.Host,
		},
		Defaults: DefaultsConfig{
			UnitPrice: app.Defaults.UnitPrice,
			RadiusKm:  app.Defaults.RadiusKm,
		},
		Features: FeatureConfig{
			ExportEnabled: app.Features.ExportEnabled,
			MergeEnabled:  app.Features.MergeEnabled,
		},
		Cities:         append([]string(nil), app.Cities...),
		Aliases:        app.Columns,
		MaxUploadBytes: 32 << 20,
		Debug:          app.Debug,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return FromAppConfig(config.DefaultConfig())
}
