package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort-route/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "cache", "routes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRouteCache_SetAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	line := orb.LineString{{-74.0060, 40.7128}, {-73.9851, 40.7589}}
	entry := &models.RouteCacheEntry{
		Key: "walking:-74.00600,40.71280;-73.98510,40.75890",
		Routes: []models.Route{
			{DistanceMeters: 5600, DurationSecs: 4100, Summary: "Broadway", Geometry: geojson.NewGeometry(line)},
			{DistanceMeters: 6100, DurationSecs: 4500},
		},
	}

	require.NoError(t, store.RouteCache().Set(ctx, entry))

	got, err := store.RouteCache().Get(ctx, entry.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Routes, 2)

	assert.Equal(t, entry.Key, got.Key)
	assert.Equal(t, 5600.0, got.Routes[0].DistanceMeters)
	assert.Equal(t, "Broadway", got.Routes[0].Summary)
	assert.Equal(t, line, got.Routes[0].LineString())
	assert.Nil(t, got.Routes[1].Geometry)
}

func TestRouteCache_Miss(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.RouteCache().Get(context.Background(), "walking:0,0;1,1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRouteCache_Overwrite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := "walking:1,1;2,2"
	require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{Key: key, Routes: []models.Route{{DistanceMeters: 1}}}))
	require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{Key: key, Routes: []models.Route{{DistanceMeters: 2}}}))

	got, err := store.RouteCache().Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got.Routes, 1)
	assert.Equal(t, 2.0, got.Routes[0].DistanceMeters)

	n, err := store.RouteCache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRouteCache_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{Key: key, Routes: []models.Route{}}))
	}

	n, err := store.RouteCache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, store.RouteCache().Clear(ctx))

	n, err = store.RouteCache().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRouteCache_SetRequiresKey(t *testing.T) {
	store := setupTestStore(t)

	assert.Error(t, store.RouteCache().Set(context.Background(), &models.RouteCacheEntry{}))
	assert.Error(t, store.RouteCache().Set(context.Background(), nil))
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{Key: "k", Routes: []models.Route{{DurationSecs: 60}}}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, path, reopened.GetDBPath())
	assert.NoError(t, reopened.HealthCheck(ctx))

	got, err := reopened.RouteCache().Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 60.0, got.Routes[0].DurationSecs)
}
