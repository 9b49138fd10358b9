package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comfort-route/internal/config"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("COMFORT_TEST_VALUE", "")
	assert.Equal(t, "fallback", getEnv("COMFORT_TEST_VALUE", "fallback"))

	t.Setenv("COMFORT_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("COMFORT_TEST_VALUE", "fallback"))
}

func TestNewPlacesSearcher(t *testing.T) {
	t.Setenv("PLACES_PROVIDER", "")
	s, err := newPlacesSearcher(config.DefaultTuning())
	require.NoError(t, err)
	assert.NotNil(t, s)

	t.Setenv("PLACES_PROVIDER", "yelp")
	_, err = newPlacesSearcher(config.DefaultTuning())
	assert.Error(t, err)
}

func TestNewDirectionsProvider(t *testing.T) {
	for _, name := range []string{"", "mapbox", "OSRM"} {
		t.Setenv("DIRECTIONS_PROVIDER", name)
		p, err := newDirectionsProvider(nil)
		require.NoError(t, err, name)
		assert.NotNil(t, p, name)
	}

	t.Setenv("DIRECTIONS_PROVIDER", "google")
	_, err := newDirectionsProvider(nil)
	assert.Error(t, err)
}

func TestOpenRouteCache(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("ROUTE_CACHE_PATH", "off")
		db, err := openRouteCache()
		require.NoError(t, err)
		assert.Nil(t, db)
	})

	t.Run("explicit path", func(t *testing.T) {
		t.Setenv("ROUTE_CACHE_PATH", filepath.Join(t.TempDir(), "cache", "routes.db"))
		db, err := openRouteCache()
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		assert.NoError(t, db.HealthCheck(ctx))
	})
}

func TestNewRand(t *testing.T) {
	assert.Nil(t, newRand(config.DefaultTuning()))

	seed := int64(42)
	r := newRand(&config.Tuning{RandomSeed: &seed})
	require.NotNil(t, r)
}
