package geocoding

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// AmapBaseURL -- Amap place-search API base URL.
const AmapBaseURL = "https://restapi.amap.com/v3/place/text"

// AmapProvider implements the secondary provider using the Amap place
// search API. Its recall and address detail for domestic points is far
// better than the primary's, but the returned coordinates are GCJ-02
// and must be converted before they are usable as GPS points.
type AmapProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Amap API
	apiKey  string       // API key with place-search access
	log     *slog.Logger // Logger for logging operations
}

// Amap place-search response (simplified for this use-case).
type amapResponse struct {
	Status string    `json:"status"`
	Info   string    `json:"info"`
	Pois   []amapPOI `json:"pois"`
}

type amapPOI struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Pname    string `json:"pname"`
	Cityname string `json:"cityname"`
	Adname   string `json:"adname"`
	Location string `json:"location"` // "lng,lat", longitude first
}

// NewAmapProvider creates a new Amap place-search provider with the
// given request timeout.
func NewAmapProvider(apiKey string, timeout time.Duration, log *slog.Logger) *AmapProvider {
	return &AmapProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: AmapBaseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

// NewAmapProviderWithClient allows injecting custom HTTP client.
func NewAmapProviderWithClient(client HTTPClient, apiKey string, log *slog.Logger) *AmapProvider {
	return &AmapProvider{
		client:  client,
		baseURL: AmapBaseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

// Lookup searches the query's full name across all cities and composes a
// single address string from the top POI. The coordinate in the result
// is GCJ-02. Any failure collapses into an absent result.
func (ap *AmapProvider) Lookup(ctx context.Context, query models.Query) models.ProviderResult {
	fullName := query.FullName()
	absent := models.ProviderResult{Confidence: models.ConfidenceAbsent}

	ap.log.DebugContext(ctx, "Searching using Amap", "query", fullName)

	reqURL, err := url.Parse(ap.baseURL)
	if err != nil {
		ap.log.ErrorContext(ctx, "Failed to parse Amap base URL", "error", err)
		return absent
	}

	params := reqURL.Query()
	params.Set("keywords", fullName)
	params.Set("key", ap.apiKey)
	params.Set("output", "json")
	params.Set("city", "")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		ap.log.ErrorContext(ctx, "Failed to create Amap request", "error", err)
		return absent
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ap.client.Do(req)
	if err != nil {
		ap.log.ErrorContext(ctx, "Amap request failed", "query", fullName, "error", err)
		return absent
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		ap.log.ErrorContext(ctx, "Amap API error", "status", resp.StatusCode, "body", string(body))
		return absent
	}

	// The endpoint's Content-Type header declares an unreliable charset;
	// the raw bytes are always UTF-8, so decode them directly.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ap.log.ErrorContext(ctx, "Failed to read Amap response body", "error", err)
		return absent
	}

	var result amapResponse
	if err = json.Unmarshal(body, &result); err != nil {
		ap.log.ErrorContext(ctx, "Failed to decode Amap response", "error", err, "body", string(body))
		return absent
	}

	if result.Status != "1" || len(result.Pois) == 0 {
		ap.log.DebugContext(ctx, "Amap returned no results",
			"query", fullName, "status", result.Status, "info", result.Info)
		return absent
	}

	poi := result.Pois[0]

	address := composeAddress(poi)
	if address == "" {
		ap.log.DebugContext(ctx, "Amap POI has no usable address", "query", fullName)
		return absent
	}

	coords, ok := parseLocation(poi.Location)
	if !ok {
		ap.log.ErrorContext(ctx, "Amap returned malformed location", "query", fullName, "location", poi.Location)
		return absent
	}

	ap.log.InfoContext(ctx, "Amap found result",
		"query", fullName, "address", address, "lat", coords.Lat, "lng", coords.Lng)

	return models.ProviderResult{
		Coords:     coords,
		Address:    address,
		Confidence: models.ConfidenceApproximate,
	}
}

// composeAddress concatenates the POI name and its administrative
// hierarchy. The location segment is province, city (omitted when it
// repeats the province), district and street address joined without
// separators; a single comma separates it from the venue-name segment,
// only when both segments are non-empty.
func composeAddress(poi amapPOI) string {
	var location strings.Builder
	location.WriteString(poi.Pname)
	if poi.Cityname != poi.Pname {
		location.WriteString(poi.Cityname)
	}
	location.WriteString(poi.Adname)
	location.WriteString(poi.Address)
	loc := location.String()

	switch {
	case poi.Name != "" && loc != "":
		return poi.Name + ", " + loc
	case poi.Name != "":
		return poi.Name
	default:
		return loc
	}
}

// parseLocation parses an Amap "lng,lat" location field. Longitude
// precedes latitude in the wire format.
func parseLocation(location string) (*models.Coordinates, bool) {
	const locationParts = 2

	parts := strings.Split(location, ",")
	if len(parts) != locationParts {
		return nil, false
	}

	lng, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, false
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, false
	}

	return &models.Coordinates{Lat: lat, Lng: lng}, true
}
