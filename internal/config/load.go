package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// POIVIEWER_SERVER_PORT or POIVIEWER_VIEW_SCENE_READY_TIMEOUT.
const EnvPrefix = "POIVIEWER"

// Load builds a Config from defaults, an optional config file (any format
// viper understands, chosen by extension) and environment overrides, in that
// order of precedence from lowest to highest.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewDefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Map.InitialCenter.Validate(); err != nil {
		return nil, fmt.Errorf("map.initial_center: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("catalog.path", d.Catalog.Path)

	v.SetDefault("map.initial_center.lat", d.Map.InitialCenter.Latitude)
	v.SetDefault("map.initial_center.lon", d.Map.InitialCenter.Longitude)
	v.SetDefault("map.initial_zoom", d.Map.InitialZoom)
	v.SetDefault("map.min_zoom", d.Map.MinZoom)
	v.SetDefault("map.max_zoom", d.Map.MaxZoom)
	v.SetDefault("map.selection_zoom", d.Map.SelectionZoom)
	v.SetDefault("map.user_zoom", d.Map.UserZoom)

	v.SetDefault("view.scene_ready_timeout", d.View.SceneReadyTimeout)
	v.SetDefault("view.camera_prompt_timeout", d.View.CameraPromptTimeout)
	v.SetDefault("view.clear_selection_on_exit", d.View.ClearSelectionOnExit)
	v.SetDefault("view.nearby_radius_km", d.View.NearbyRadiusKm)

	v.SetDefault("location.high_accuracy", d.Location.HighAccuracy)
	v.SetDefault("location.maximum_age", d.Location.MaximumAge)
	v.SetDefault("location.sample_timeout", d.Location.SampleTimeout)
	v.SetDefault("location.one_shot_timeout", d.Location.OneShotTimeout)
	v.SetDefault("location.geohash_precision", d.Location.GeohashPrecision)

	v.SetDefault("session.idle_ttl", d.Session.IdleTTL)
	v.SetDefault("session.sweep_interval", d.Session.SweepInterval)
}
