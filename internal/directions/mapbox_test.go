package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort-route/internal/database"
	"comfort-route/internal/models"
	"comfort-route/internal/testutil"
)

const okResponse = `{
  "code": "Ok",
  "routes": [
    {
      "distance": 1834.2,
      "duration": 1320.5,
      "weight_name": "pedestrian",
      "geometry": {"type": "LineString", "coordinates": [[-73.9911, 40.7359], [-73.9870, 40.7420], [-73.9851, 40.7484]]},
      "legs": [{"summary": "Broadway"}, {"summary": "5th Avenue"}]
    },
    {
      "distance": 1950.0,
      "duration": 1400.0,
      "geometry": {"type": "LineString", "coordinates": [[-73.9911, 40.7359], [-73.9851, 40.7484]]},
      "legs": [{"summary": ""}]
    }
  ]
}`

var (
	start = models.Coordinates{Lat: 40.7359, Lng: -73.9911}
	end   = models.Coordinates{Lat: 40.7484, Lng: -73.9851}
)

func newTestProvider(serverURL string, cache database.RouteCacheRepository) *mapboxProvider {
	p := NewMapboxProvider(serverURL, "test-token", cache).(*mapboxProvider)
	return p
}

func TestGetRoutes_Success(t *testing.T) {
	waypoint := models.Coordinates{Lat: 40.7420, Lng: -73.9870}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/v5/mapbox/walking/-73.991100,40.735900;-73.987000,40.742000;-73.985100,40.748400", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("alternatives"))
		assert.Equal(t, "geojson", q.Get("geometries"))
		assert.Equal(t, "true", q.Get("steps"))
		assert.Equal(t, "test-token", q.Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	routes, err := newTestProvider(server.URL, nil).GetRoutes(context.Background(), start, end, []models.Coordinates{waypoint})
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, 1834.2, routes[0].DistanceMeters)
	assert.Equal(t, 1320.5, routes[0].DurationSecs)
	assert.Equal(t, "Broadway; 5th Avenue", routes[0].Summary)
	assert.Equal(t, orb.LineString{{-73.9911, 40.7359}, {-73.9870, 40.7420}, {-73.9851, 40.7484}}, routes[0].LineString())
	assert.Equal(t, "", routes[1].Summary)
}

func TestGetRoutes_UsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	cache := testutil.NewMockRouteCache()
	provider := newTestProvider(server.URL, cache)

	first, err := provider.GetRoutes(context.Background(), start, end, nil)
	require.NoError(t, err)
	second, err := provider.GetRoutes(context.Background(), start, end, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Sets)

	_, ok := cache.Entries[database.RouteCacheKey("walking", []models.Coordinates{start, end})]
	assert.True(t, ok)
}

func TestGetRoutes_CacheErrorsAreNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	cache := testutil.NewMockRouteCache()
	cache.GetErr = errors.New("disk full")
	cache.SetErr = errors.New("disk full")

	routes, err := newTestProvider(server.URL, cache).GetRoutes(context.Background(), start, end, nil)
	require.NoError(t, err)
	assert.Len(t, routes, 2)
}

func TestGetRoutes_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantReason string
	}{
		{"no route", http.StatusOK, `{"code":"NoRoute","message":"No route found","routes":[]}`, "NoRoute", "No route found"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Not Authorized - Invalid Token"}`, "", "HTTP 401: Not Authorized - Invalid Token"},
		{"server error", http.StatusInternalServerError, `oops`, "", "HTTP 500"},
		{"bad json", http.StatusOK, `{"code":`, "", "unexpected end of JSON input"},
		{"empty routes", http.StatusOK, `{"code":"Ok","routes":[]}`, "Ok", "no routes returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			cache := testutil.NewMockRouteCache()
			_, err := newTestProvider(server.URL, cache).GetRoutes(context.Background(), start, end, nil)

			var derr *ErrDirectionsFailed
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.wantCode, derr.Code)
			assert.Contains(t, derr.Reason, tt.wantReason)
			assert.Equal(t, 0, cache.Sets)
		})
	}
}

func TestGetRoutes_TooManyCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("directions API should not be called")
	}))
	defer server.Close()

	waypoints := make([]models.Coordinates, MaxCoordinates-1)
	for i := range waypoints {
		waypoints[i] = models.Coordinates{Lat: 40.74 + float64(i)*0.001, Lng: -73.99}
	}

	_, err := newTestProvider(server.URL, nil).GetRoutes(context.Background(), start, end, waypoints)

	var derr *ErrDirectionsFailed
	require.ErrorAs(t, err, &derr)
	assert.True(t, strings.Contains(derr.Reason, "too many coordinates"))
}

func TestGetRoutes_InvalidCoordinate(t *testing.T) {
	_, err := newTestProvider("http://127.0.0.1:0", nil).GetRoutes(context.Background(),
		start, models.Coordinates{Lat: 95, Lng: 0}, nil)

	var derr *ErrDirectionsFailed
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Reason, "position 1")
}

func TestNewMapboxProvider_Defaults(t *testing.T) {
	p := NewMapboxProvider("", "tok", nil).(*mapboxProvider)
	assert.Equal(t, DefaultMapboxURL, p.baseURL)
	assert.Equal(t, "walking", p.profile)
}
