package geocoding

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderConfig holds the credentials and shared settings for both
// geocoding providers. Credentials are injected here once at startup;
// providers never read ambient global state.
type ProviderConfig struct {
	GoogleAPIKey string        // API key for the Google Maps Geocoding API
	AmapAPIKey   string        // API key for the Amap place-search API
	Timeout      time.Duration // Per-request timeout for outbound calls
	Logger       *slog.Logger  // Logger shared by the providers
}

// NewPrimary creates the international geocoding provider. A missing
// credential disables the provider (every lookup resolves as absent)
// rather than returning an error.
func NewPrimary(config ProviderConfig) (Provider, error) {
	if config.GoogleAPIKey == "" {
		config.Logger.Warn("Google API key not configured, primary provider disabled")
		return NewDisabled("google", config.Logger), nil
	}

	client, err := maps.NewClient(
		maps.WithAPIKey(config.GoogleAPIKey),
		maps.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// NewSecondary creates the regional place-search provider. A missing
// credential disables the provider rather than returning an error.
func NewSecondary(config ProviderConfig) Provider {
	if config.AmapAPIKey == "" {
		config.Logger.Warn("Amap API key not configured, secondary provider disabled")
		return NewDisabled("amap", config.Logger)
	}

	return NewAmapProvider(config.AmapAPIKey, config.Timeout, config.Logger)
}
