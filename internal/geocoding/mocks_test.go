package geocoding_test

import (
	"context"
	"net/http"

	"googlemaps.github.io/maps"
)

// mockHTTPClient implements geocoding.HTTPClient for tests.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
	calls  int
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.doFunc(req)
}

// mockGoogleClient implements geocoding.GoogleAPIClient for tests.
type mockGoogleClient struct {
	geocodeFunc func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	calls       int
}

func (m *mockGoogleClient) Geocode(
	ctx context.Context,
	r *maps.GeocodingRequest,
) ([]maps.GeocodingResult, error) {
	m.calls++
	return m.geocodeFunc(ctx, r)
}
