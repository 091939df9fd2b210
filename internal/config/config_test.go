package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, NewDefaultConfig(), cfg)
	assert.Equal(t, 27*time.Second, cfg.Location.SampleTimeout)
	assert.Equal(t, 5*time.Second, cfg.View.SceneReadyTimeout)
	assert.Equal(t, 50.0, cfg.View.NearbyRadiusKm)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poiviewer.yaml")
	doc := `
server:
  port: ":9090"
map:
  initial_center:
    lat: 48.1
    lon: 11.5
view:
  scene_ready_timeout: 2s
  clear_selection_on_exit: true
catalog:
  path: /etc/poiviewer/pois.json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("POIVIEWER_LOCATION_SAMPLE_TIMEOUT", "10s")
	t.Setenv("POIVIEWER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 48.1, cfg.Map.InitialCenter.Latitude)
	assert.Equal(t, 11.5, cfg.Map.InitialCenter.Longitude)
	assert.Equal(t, 2*time.Second, cfg.View.SceneReadyTimeout)
	assert.True(t, cfg.View.ClearSelectionOnExit)
	assert.Equal(t, "/etc/poiviewer/pois.json", cfg.Catalog.Path)
	assert.Equal(t, 10*time.Second, cfg.Location.SampleTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 15, cfg.Map.SelectionZoom)
}

func TestLoadRejectsBadCenter(t *testing.T) {
	t.Setenv("POIVIEWER_MAP_INITIAL_CENTER_LAT", "120")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
