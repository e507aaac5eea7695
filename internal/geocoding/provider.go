package geocoding

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Provider is an interface that defines a method for resolving a place
// query into a normalized geocoding result. Lookup never returns an
// error: network failures, timeouts, non-success statuses and malformed
// responses all collapse into a result with ConfidenceAbsent, so that
// provider trouble never propagates past this boundary.
type Provider interface {
	Lookup(ctx context.Context, query models.Query) models.ProviderResult
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Disabled is a Provider whose credential is not configured. Every
// Lookup returns an absent result without attempting any network I/O.
type Disabled struct {
	name string
	log  *slog.Logger
}

// NewDisabled creates a disabled provider placeholder for the named role.
func NewDisabled(name string, log *slog.Logger) *Disabled {
	return &Disabled{name: name, log: log}
}

// Lookup reports an absent result for any query.
func (dp *Disabled) Lookup(ctx context.Context, query models.Query) models.ProviderResult {
	dp.log.DebugContext(ctx, "Provider disabled, no credential configured",
		"provider", dp.name, "query", query.FullName())
	return models.ProviderResult{Confidence: models.ConfidenceAbsent}
}
