package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the venue enrichment
// service.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the upload web server.
// - GoogleAPIKey: Credential for the Google geocoding and embed APIs.
// - AmapAPIKey: Credential for the Amap place-search API.
// - Workers: The number of concurrent workers resolving rows.
// - ProviderTimeout: The per-request timeout for outbound provider calls.
// - DownloadDir: The persistent folder that holds produced artifacts.
// - MaxUploadMB: The maximum accepted upload size in megabytes.
//
// A missing provider credential is not an error: it disables that
// provider entirely and its calls resolve as absent.
type Config struct {
	Env             string        // Env is the current environment: local, dev, prod.
	Port            int           // Port is the upload server port.
	GoogleAPIKey    string        // The API key for the Google Maps APIs.
	AmapAPIKey      string        // The API key for the Amap place-search API.
	Workers         int           // The number of concurrent workers for resolving rows.
	ProviderTimeout time.Duration // The timeout for a single provider request.
	DownloadDir     string        // Directory where produced artifacts are kept for download.
	MaxUploadMB     int64         // Maximum upload size in megabytes.
}

// MustLoad loads the configuration from the environment and returns a
// Config struct. It panics on malformed numeric values.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("VENUES_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for upload server from configuration")
	}

	workers, err := strconv.Atoi(setDefaultEnv("VENUES_WORKERS", "1"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer type")
	}

	timeout, err := time.ParseDuration(setDefaultEnv("VENUES_PROVIDER_TIMEOUT", "10s"))
	if err != nil {
		panic("failed to parse provider timeout from configuration")
	}

	maxUpload, err := strconv.ParseInt(setDefaultEnv("VENUES_MAX_UPLOAD_MB", "16"), 10, 64)
	if err != nil {
		panic("failed to parse max upload size from configuration")
	}

	return &Config{
		Env:             setDefaultEnv("VENUES_ENV", "production"),
		Port:            port,
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		AmapAPIKey:      os.Getenv("AMAP_API_KEY"),
		Workers:         workers,
		ProviderTimeout: timeout,
		DownloadDir:     setDefaultEnv("VENUES_DOWNLOAD_DIR", "downloads"),
		MaxUploadMB:     maxUpload,
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
