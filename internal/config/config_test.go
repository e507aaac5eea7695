package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoad(t *testing.T) {
	t.Setenv("VENUES_ENV", "local")
	t.Setenv("VENUES_PORT", "9090")
	t.Setenv("VENUES_WORKERS", "4")
	t.Setenv("VENUES_PROVIDER_TIMEOUT", "5s")
	t.Setenv("VENUES_DOWNLOAD_DIR", "/tmp/venue-downloads")
	t.Setenv("VENUES_MAX_UPLOAD_MB", "32")
	t.Setenv("GOOGLE_API_KEY", "google-test-key")
	t.Setenv("AMAP_API_KEY", "amap-test-key")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "/tmp/venue-downloads", cfg.DownloadDir)
	assert.Equal(t, int64(32), cfg.MaxUploadMB)
	assert.Equal(t, "google-test-key", cfg.GoogleAPIKey)
	assert.Equal(t, "amap-test-key", cfg.AmapAPIKey)
}

func Test_MustLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("AMAP_API_KEY", "")

	cfg := config.MustLoad()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, int64(16), cfg.MaxUploadMB)
	assert.Empty(t, cfg.GoogleAPIKey)
	assert.Empty(t, cfg.AmapAPIKey)
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("VENUES_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for upload server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_WorkersError(t *testing.T) {
	t.Setenv("VENUES_WORKERS", "error_value")

	assert.PanicsWithValue(t, "failed to parse workers from configuration, must be an integer type", func() {
		config.MustLoad()
	})
}

func TestMustLoad_TimeoutError(t *testing.T) {
	t.Setenv("VENUES_PROVIDER_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse provider timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MaxUploadError(t *testing.T) {
	t.Setenv("VENUES_MAX_UPLOAD_MB", "error_value")

	assert.PanicsWithValue(t, "failed to parse max upload size from configuration", func() {
		config.MustLoad()
	})
}
