package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupParsesFirstResult(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.URL.RawQuery, "format=json")
		w.Write([]byte(`[{"lat":"39.9612","lon":"-82.9988"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "test-agent/1.0")
	coords, ok, err := g.Lookup(context.Background(), "43210", "Columbus", "OH")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 39.9612, coords.Latitude, 0.0001)
	assert.InDelta(t, -82.9988, coords.Longitude, 0.0001)

	// Second lookup of the same address is served from memory.
	_, ok, err = g.Lookup(context.Background(), "43210", "Columbus", "OH")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, requests)
}

func TestLookupNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "test-agent/1.0")
	_, ok, err := g.Lookup(context.Background(), "00000", "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "test-agent/1.0")
	_, _, err := g.Lookup(context.Background(), "43210", "Columbus", "OH")
	assert.Error(t, err)
}
