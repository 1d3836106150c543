// Package geocode resolves institution addresses to coordinates through
// the Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a US zip/city/state to coordinates. Returns ok=false
// when the location cannot be resolved; that is not an error.
type Geocoder interface {
	Lookup(ctx context.Context, zip, city, state string) (Coordinates, bool, error)
}

// NominatimGeocoder is the production Geocoder. Results are memoized per
// query since institution addresses never change at runtime, and
// Nominatim asks clients to keep request rates low.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client

	mu    sync.Mutex
	memo  map[string]memoEntry
}

type memoEntry struct {
	coords Coordinates
	ok     bool
}

// NewNominatim creates a Nominatim-backed geocoder.
func NewNominatim(baseURL, userAgent string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		memo:      map[string]memoEntry{},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves "zip, city, state, USA" through the search endpoint.
func (g *NominatimGeocoder) Lookup(ctx context.Context, zip, city, state string) (Coordinates, bool, error) {
	query := fmt.Sprintf("%s, %s, %s, USA", zip, city, state)

	g.mu.Lock()
	if entry, ok := g.memo[query]; ok {
		g.mu.Unlock()
		return entry.coords, entry.ok, nil
	}
	g.mu.Unlock()

	reqURL := fmt.Sprintf("%s/search?format=json&q=%s", g.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("error building geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("error calling geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, false, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, false, fmt.Errorf("error decoding geocoder response: %w", err)
	}

	var entry memoEntry
	if len(results) > 0 {
		lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
		if latErr == nil && lonErr == nil {
			entry = memoEntry{coords: Coordinates{Latitude: lat, Longitude: lon}, ok: true}
		}
	}
	if !entry.ok {
		logger.Debug().Str("query", query).Msg("Geocoder found no match")
	}

	g.mu.Lock()
	g.memo[query] = entry
	g.mu.Unlock()

	return entry.coords, entry.ok, nil
}
