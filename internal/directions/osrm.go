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
	DefaultOSRMURL = "https://router.project-osrm.org"
	profileFoot    = "foot"
)

type osrmProvider struct {
	baseURL    string
	profile    string
	httpClient *http.Client
	cache      database.RouteCacheRepository
}

// NewOSRMProvider creates a directions provider backed by an OSRM route service.
// It needs no access token, which makes it the self-hosted alternative to Mapbox. cache may be nil.
func NewOSRMProvider(baseURL string, cache database.RouteCacheRepository) Provider {
	if baseURL == "" {
		baseURL = DefaultOSRMURL
	}
	return &osrmProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profileFoot,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}
}

func (p *osrmProvider) GetRoutes(ctx context.Context, start, end models.Coordinates, waypoints []models.Coordinates) ([]models.Route, error) {
	coords, err := routeCoordinates(start, end, waypoints)
	if err != nil {
		return nil, err
	}
	// keyed apart from Mapbox entries for the same coordinates
	return cachedRoutes(ctx, p.cache, "osrm-"+p.profile, coords, p.fetch)
}

func (p *osrmProvider) fetch(ctx context.Context, coords []models.Coordinates) ([]models.Route, error) {
	params := url.Values{}
	params.Set("alternatives", "true")
	params.Set("geometries", "geojson")
	params.Set("overview", "full")
	params.Set("steps", "true")

	queryURL := fmt.Sprintf("%s/route/v1/%s/%s?%s", p.baseURL, p.profile, coordinatePath(coords), params.Encode())
	log.Printf("[OSRM] Route request: profile=%s coordinates=%d", p.profile, len(coords))

	return doRouteRequest(ctx, p.httpClient, "osrm", queryURL, len(coords))
}
