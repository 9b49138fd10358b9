package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort-route/internal/database"
	"comfort-route/internal/models"
	"comfort-route/internal/testutil"
)

func TestOSRMGetRoutes_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/foot/-73.991100,40.735900;-73.985100,40.748400", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("alternatives"))
		assert.Equal(t, "geojson", q.Get("geometries"))
		assert.Equal(t, "full", q.Get("overview"))
		assert.Empty(t, q.Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	cache := testutil.NewMockRouteCache()
	routes, err := NewOSRMProvider(server.URL, cache).GetRoutes(context.Background(), start, end, nil)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "Broadway; 5th Avenue", routes[0].Summary)

	coords := []models.Coordinates{start, end}
	_, ok := cache.Entries[database.RouteCacheKey("osrm-foot", coords)]
	assert.True(t, ok)
	_, ok = cache.Entries[database.RouteCacheKey("walking", coords)]
	assert.False(t, ok, "osrm entries must not be served to mapbox lookups")
}

func TestOSRMGetRoutes_ErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"InvalidQuery","message":"Query string malformed close to position 28"}`))
	}))
	defer server.Close()

	_, err := NewOSRMProvider(server.URL, nil).GetRoutes(context.Background(), start, end, nil)

	var derr *ErrDirectionsFailed
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "InvalidQuery", derr.Code)
	assert.Contains(t, derr.Reason, "HTTP 400")
}

func TestNewOSRMProvider_Defaults(t *testing.T) {
	p := NewOSRMProvider("", nil).(*osrmProvider)
	assert.Equal(t, DefaultOSRMURL, p.baseURL)
	assert.Equal(t, "foot", p.profile)
}
