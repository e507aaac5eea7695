// Package resolver arbitrates between the two geocoding providers and
// produces one canonical resolution outcome per query.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/geocoding"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/transform"
)

// Provider name labels for metrics.
const (
	primaryName   = "google"
	secondaryName = "amap"
)

// Resolver decides which provider's answer to trust for a query.
//
// The trust order is asymmetric: an exact primary result always wins
// outright and the secondary is never consulted; on an approximate or
// absent primary result the secondary is consulted exactly once, its
// GCJ-02 coordinate converted to WGS-84 and used together with its
// composed address. A single failed call is final for that provider
// within one resolution attempt; there are no retries.
type Resolver struct {
	primary   geocoding.Provider // International geocoding provider (WGS-84)
	secondary geocoding.Provider // Regional place-search provider (GCJ-02)
	mapKey    string             // Credential for the embed-widget URL, may be empty
	log       *slog.Logger       // Logger for resolution decisions
	metrics   *metrics.Metrics   // Instruments for provider calls and fallbacks
}

// New creates a Resolver over the two providers. mapKey is the map
// credential used for embed URLs; when empty, embed URLs are omitted.
func New(
	primary geocoding.Provider,
	secondary geocoding.Provider,
	mapKey string,
	log *slog.Logger,
	mtr *metrics.Metrics,
) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		mapKey:    mapKey,
		log:       log,
		metrics:   mtr,
	}
}

// Resolve returns the canonical outcome for one query. The outcome's
// point is nil when neither provider produced a usable coordinate; such
// rows stay in the spreadsheet artifact but are dropped from the
// placemark artifact.
func (r *Resolver) Resolve(ctx context.Context, query models.Query) models.ResolutionOutcome {
	primaryRes := r.lookup(ctx, r.primary, primaryName, query)

	if primaryRes.Confidence == models.ConfidenceExact {
		r.log.DebugContext(ctx, "Primary result is exact, skipping secondary",
			"query", query.FullName(), "address", primaryRes.Address)
		return r.outcome(primaryRes.Address, primaryRes.Coords)
	}

	r.log.DebugContext(ctx, "Primary result not exact, consulting secondary",
		"query", query.FullName(), "confidence", primaryRes.Confidence.String())
	r.metrics.Fallbacks.Inc()

	secondaryRes := r.lookup(ctx, r.secondary, secondaryName, query)
	if secondaryRes.Confidence == models.ConfidenceAbsent {
		r.log.InfoContext(ctx, "Venue unresolvable by both providers", "query", query.FullName())
		return models.ResolutionOutcome{}
	}

	lat, lng := transform.GCJ02ToWGS84(secondaryRes.Coords.Lat, secondaryRes.Coords.Lng)
	point := &models.Coordinates{Lat: lat, Lng: lng}

	r.log.DebugContext(ctx, "Using secondary result with converted coordinate",
		"query", query.FullName(), "address", secondaryRes.Address, "lat", lat, "lng", lng)

	return r.outcome(secondaryRes.Address, point)
}

// lookup calls one provider, recording its request duration and counting
// absent results as API errors.
func (r *Resolver) lookup(
	ctx context.Context,
	provider geocoding.Provider,
	name string,
	query models.Query,
) models.ProviderResult {
	start := time.Now()
	result := provider.Lookup(ctx, query)
	r.metrics.RequestSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if result.Confidence == models.ConfidenceAbsent {
		r.metrics.APIErrors.Inc()
	}

	return result
}

func (r *Resolver) outcome(address string, point *models.Coordinates) models.ResolutionOutcome {
	direct, embed := r.buildMapLinks(point)
	return models.ResolutionOutcome{
		Address:   address,
		DirectURL: direct,
		EmbedURL:  embed,
		Point:     point,
	}
}

// buildMapLinks generates the search deep link and, when a map credential
// is configured, the embed-widget URL for the canonical coordinate.
// Links are always built from the coordinate pair, never from address text.
func (r *Resolver) buildMapLinks(point *models.Coordinates) (string, string) {
	encoded := url.QueryEscape(fmt.Sprintf("%v,%v", point.Lat, point.Lng))

	direct := "https://www.google.com/maps/search/?api=1&query=" + encoded

	embed := ""
	if r.mapKey != "" {
		embed = "https://www.google.com/maps/embed/v1/place?key=" + r.mapKey + "&q=" + encoded
	}

	return direct, embed
}
