// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Defaults live in NewDefaultConfig as plain struct literals. Load layers an
// optional config file and POIVIEWER_* environment variables on top of them
// using "github.com/spf13/viper", then decodes the result back into the same
// typed structs, so the rest of the code never touches untyped keys.
package config

import (
	"time"

	"poiviewer/internal/domain/entities"
)

// Config is the top-level configuration container.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Map      MapConfig      `mapstructure:"map"`
	View     ViewConfig     `mapstructure:"view"`
	Location LocationConfig `mapstructure:"location"`
	Session  SessionConfig  `mapstructure:"session"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"` // websocket origins; "*" allows all
}

// LogConfig selects the zerolog level and output format ("json" or "console").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig points at a JSON POI catalog. An empty path uses the built-in
// sample POIs.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MapConfig holds the map surface's view parameters.
type MapConfig struct {
	InitialCenter entities.Coordinate `mapstructure:"initial_center" json:"initial_center"`
	InitialZoom   int                 `mapstructure:"initial_zoom" json:"initial_zoom"`
	MinZoom       int                 `mapstructure:"min_zoom" json:"min_zoom"`
	MaxZoom       int                 `mapstructure:"max_zoom" json:"max_zoom"`
	SelectionZoom int                 `mapstructure:"selection_zoom" json:"selection_zoom"` // zoom when a POI is selected
	UserZoom      int                 `mapstructure:"user_zoom" json:"user_zoom"`           // zoom after the first position fix
}

// ViewConfig controls the Map/AR coordinator.
type ViewConfig struct {
	// SceneReadyTimeout bounds the wait for the AR scene's ready signal.
	// When it elapses the coordinator proceeds as if ready.
	SceneReadyTimeout time.Duration `mapstructure:"scene_ready_timeout"`
	// CameraPromptTimeout bounds the wait for a camera permission answer.
	// An unanswered prompt counts as a denial.
	CameraPromptTimeout  time.Duration `mapstructure:"camera_prompt_timeout"`
	ClearSelectionOnExit bool          `mapstructure:"clear_selection_on_exit"`
	NearbyRadiusKm       float64       `mapstructure:"nearby_radius_km"`
}

// LocationConfig holds the device location request options.
type LocationConfig struct {
	HighAccuracy     bool          `mapstructure:"high_accuracy"`
	MaximumAge       time.Duration `mapstructure:"maximum_age"`
	SampleTimeout    time.Duration `mapstructure:"sample_timeout"`    // per-sample budget of a subscription
	OneShotTimeout   time.Duration `mapstructure:"one_shot_timeout"`  // budget of the startup fix
	GeohashPrecision int           `mapstructure:"geohash_precision"` // precision of position labels
}

// SessionConfig controls viewer session lifetime.
type SessionConfig struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Map: MapConfig{
			InitialCenter: entities.NewCoordinate(51.1657, 10.4515), // center of Germany
			InitialZoom:   6,
			MinZoom:       3,
			MaxZoom:       18,
			SelectionZoom: 15,
			UserZoom:      12,
		},
		View: ViewConfig{
			SceneReadyTimeout:   5 * time.Second,
			CameraPromptTimeout: 60 * time.Second,
			NearbyRadiusKm:      50,
		},
		Location: LocationConfig{
			HighAccuracy:     true,
			MaximumAge:       0,
			SampleTimeout:    27 * time.Second,
			OneShotTimeout:   5 * time.Second,
			GeohashPrecision: 7,
		},
		Session: SessionConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}
