package directions

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comfort-route/internal/database"
	"comfort-route/internal/models"
)

const (
	DefaultMapboxURL = "https://api.mapbox.com"
	profileWalking   = "walking"
)

type mapboxProvider struct {
	baseURL     string
	accessToken string
	profile     string
	httpClient  *http.Client
	cache       database.RouteCacheRepository
}

// NewMapboxProvider creates a walking directions provider. cache may be nil.
func NewMapboxProvider(baseURL, accessToken string, cache database.RouteCacheRepository) Provider {
	if baseURL == "" {
		baseURL = DefaultMapboxURL
	}
	return &mapboxProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		profile:     profileWalking,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}
}

func (p *mapboxProvider) GetRoutes(ctx context.Context, start, end models.Coordinates, waypoints []models.Coordinates) ([]models.Route, error) {
	coords, err := routeCoordinates(start, end, waypoints)
	if err != nil {
		return nil, err
	}
	return cachedRoutes(ctx, p.cache, p.profile, coords, p.fetch)
}

func (p *mapboxProvider) fetch(ctx context.Context, coords []models.Coordinates) ([]models.Route, error) {
	params := url.Values{}
	params.Set("alternatives", "true")
	params.Set("geometries", "geojson")
	params.Set("steps", "true")
	params.Set("access_token", p.accessToken)

	queryURL := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s?%s", p.baseURL, p.profile, coordinatePath(coords), params.Encode())
	log.Printf("[DIRECTIONS] Request: service=mapbox profile=%s coordinates=%d", p.profile, len(coords))

	return doRouteRequest(ctx, p.httpClient, "mapbox", queryURL, len(coords))
}
