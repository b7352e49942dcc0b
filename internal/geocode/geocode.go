// Package geocode resolves free-text place descriptions to coordinates using
// the Amap geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/httpx"
)

const defaultBaseURL = "https://restapi.amap.com/v3/geocode/geo"

// GeoResult is the resolved location for a place string, immutable once
// produced. Lng/Lat feed both the weather request and its cache key.
type GeoResult struct {
	QueryPlace      string  `json:"query_place"`
	ResolvedAddress string  `json:"resolved_address"`
	Lng             float64 `json:"lng"`
	Lat             float64 `json:"lat"`
	Province        string  `json:"province,omitempty"`
	City            string  `json:"city,omitempty"`
	District        string  `json:"district,omitempty"`
	Adcode          string  `json:"adcode,omitempty"`
}

// ResolutionError reports a place that could not be resolved: upstream
// failure status, empty candidate set, or a malformed coordinate string.
type ResolutionError struct {
	Place  string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %s", e.Place, e.Reason)
}

// Resolver queries the Amap geocode endpoint through the shared fetcher.
type Resolver struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
}

// NewResolver creates a Resolver using the given fetch client and API key.
func NewResolver(client *httpx.Client, apiKey string) *Resolver {
	return &Resolver{
		client:  client,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// Resolve turns place into a GeoResult, keeping only the first candidate.
func (r *Resolver) Resolve(ctx context.Context, place string) (GeoResult, error) {
	values := url.Values{}
	values.Set("address", place)
	values.Set("key", r.apiKey)

	raw, err := r.client.FetchJSON(ctx, r.baseURL+"?"+values.Encode())
	if err != nil {
		return GeoResult{}, err
	}

	var payload struct {
		Status   string           `json:"status"`
		Info     string           `json:"info"`
		Geocodes []map[string]any `json:"geocodes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return GeoResult{}, &ResolutionError{Place: place, Reason: "malformed geocode response"}
	}

	if payload.Status != "1" {
		reason := "upstream reported failure"
		if payload.Info != "" {
			reason = "upstream reported failure: " + payload.Info
		}
		return GeoResult{}, &ResolutionError{Place: place, Reason: reason}
	}
	if len(payload.Geocodes) == 0 {
		return GeoResult{}, &ResolutionError{Place: place, Reason: "place not found"}
	}

	first := payload.Geocodes[0]
	lng, lat, err := parseLocation(stringField(first, "location"))
	if err != nil {
		return GeoResult{}, &ResolutionError{
			Place:  place,
			Reason: fmt.Sprintf("malformed coordinate %q", stringField(first, "location")),
		}
	}

	resolved := stringField(first, "formatted_address")
	if resolved == "" {
		resolved = place
	}

	return GeoResult{
		QueryPlace:      place,
		ResolvedAddress: resolved,
		Lng:             lng,
		Lat:             lat,
		Province:        stringField(first, "province"),
		City:            stringField(first, "city"),
		District:        stringField(first, "district"),
		Adcode:          stringField(first, "adcode"),
	}, nil
}

// MockResult is the offline stand-in used in mock mode: the place string
// itself as the address, pinned to central Beijing.
func MockResult(place string) GeoResult {
	return GeoResult{
		QueryPlace:      place,
		ResolvedAddress: place,
		Lng:             116.397428,
		Lat:             39.90923,
	}
}

// parseLocation splits a "lng,lat" pair into floats.
func parseLocation(location string) (lng, lat float64, err error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lng,lat pair")
	}
	lng, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return lng, lat, nil
}

// stringField reads a string value from a loosely typed upstream object.
// Amap occasionally sends empty arrays where strings are documented.
func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
