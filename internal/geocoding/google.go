package geocoding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It serves as the primary provider:
// its coordinates are already WGS-84 and its server-reported precision
// tier drives the arbitration decision.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given API client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Lookup geocodes the query's full name using the Google Maps Geocoding API.
// The server-reported location type maps onto the confidence tiers:
// APPROXIMATE becomes ConfidenceApproximate, every rooftop/interpolated/
// geometric-center tier becomes ConfidenceExact. If the venue name does
// not appear in the formatted address (case-insensitive), confidence is
// degraded to approximate regardless of the server's tier, because the
// address may describe an unrelated enclosing area.
func (gp *GoogleProvider) Lookup(ctx context.Context, query models.Query) models.ProviderResult {
	fullName := query.FullName()
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", fullName)

	req := maps.GeocodingRequest{Address: fullName}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		gp.log.ErrorContext(ctx, "Google geocoding request failed", "query", fullName, "error", err)
		return models.ProviderResult{Confidence: models.ConfidenceAbsent}
	}

	if len(results) == 0 {
		gp.log.DebugContext(ctx, "Google returned no results", "query", fullName)
		return models.ProviderResult{Confidence: models.ConfidenceAbsent}
	}

	top := results[0]
	loc := top.Geometry.Location

	confidence := models.ConfidenceExact
	if top.Geometry.LocationType == "APPROXIMATE" {
		confidence = models.ConfidenceApproximate
	}
	if !strings.Contains(strings.ToLower(top.FormattedAddress), strings.ToLower(query.Venue)) {
		gp.log.DebugContext(ctx, "Venue name not in formatted address, degrading confidence",
			"query", fullName, "address", top.FormattedAddress)
		confidence = models.ConfidenceApproximate
	}

	gp.log.DebugContext(ctx, "Google found result",
		"query", fullName, "lat", loc.Lat, "lng", loc.Lng,
		"location_type", top.Geometry.LocationType, "confidence", confidence.String())

	return models.ProviderResult{
		Coords:     &models.Coordinates{Lat: loc.Lat, Lng: loc.Lng},
		Address:    top.FormattedAddress,
		Confidence: confidence,
	}
}
