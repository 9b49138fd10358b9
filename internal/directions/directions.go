package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/paulmach/orb/geojson"

	"comfort-route/internal/database"
	"comfort-route/internal/models"
)

// MaxCoordinates is the most coordinates (start, waypoints and end) one request may carry
const MaxCoordinates = 25

// Provider fetches route alternatives through an ordered list of waypoints
type Provider interface {
	GetRoutes(ctx context.Context, start, end models.Coordinates, waypoints []models.Coordinates) ([]models.Route, error)
}

// ErrDirectionsFailed is returned when the directions API cannot produce a route
type ErrDirectionsFailed struct {
	Code   string
	Reason string
}

func (e *ErrDirectionsFailed) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("directions failed (%s): %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("directions failed: %s", e.Reason)
}

// routeResponse is the route body shared by Mapbox Directions and the OSRM route service
type routeResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Routes  []apiRoute `json:"routes"`
}

type apiRoute struct {
	Distance   float64           `json:"distance"`
	Duration   float64           `json:"duration"`
	WeightName string            `json:"weight_name"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Legs       []struct {
		Summary string `json:"summary"`
	} `json:"legs"`
}

// fetchFunc performs the HTTP request for coords
type fetchFunc func(ctx context.Context, coords []models.Coordinates) ([]models.Route, error)

// routeCoordinates joins start, waypoints and end and checks them
func routeCoordinates(start, end models.Coordinates, waypoints []models.Coordinates) ([]models.Coordinates, error) {
	coords := make([]models.Coordinates, 0, len(waypoints)+2)
	coords = append(coords, start)
	coords = append(coords, waypoints...)
	coords = append(coords, end)

	if len(coords) > MaxCoordinates {
		return nil, &ErrDirectionsFailed{
			Reason: fmt.Sprintf("too many coordinates: %d (max %d)", len(coords), MaxCoordinates),
		}
	}
	for i, c := range coords {
		if !c.Valid() {
			return nil, &ErrDirectionsFailed{Reason: fmt.Sprintf("invalid coordinate at position %d", i)}
		}
	}
	return coords, nil
}

// cachedRoutes serves coords from cache when possible and stores fresh results.
// Cache failures are logged and never fail the lookup. cache may be nil.
func cachedRoutes(ctx context.Context, cache database.RouteCacheRepository, profile string, coords []models.Coordinates, fetch fetchFunc) ([]models.Route, error) {
	key := database.RouteCacheKey(profile, coords)
	if cache != nil {
		cached, err := cache.Get(ctx, key)
		if err != nil {
			log.Printf("[DIRECTIONS] Cache read failed, fetching: key=%s err=%v", key, err)
		} else if cached != nil {
			log.Printf("[DIRECTIONS] Cache hit: key=%s routes=%d", key, len(cached.Routes))
			return cached.Routes, nil
		}
	}

	routes, err := fetch(ctx, coords)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Set(ctx, &models.RouteCacheEntry{Key: key, Routes: routes}); err != nil {
			log.Printf("[DIRECTIONS] Cache write failed: key=%s err=%v", key, err)
		}
	}

	return routes, nil
}

// coordinatePath renders coords as the "lng,lat;lng,lat" path segment both APIs use
func coordinatePath(coords []models.Coordinates) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%.6f,%.6f", c.Lng, c.Lat)
	}
	return strings.Join(parts, ";")
}

// doRouteRequest issues a GET and decodes a routeResponse into routes
func doRouteRequest(ctx context.Context, client *http.Client, service, queryURL string, coordCount int) ([]models.Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrDirectionsFailed{Reason: err.Error()}
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[ERROR] Directions API request failed: service=%s coordinates=%d err=%v", service, coordCount, err)
		return nil, &ErrDirectionsFailed{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrDirectionsFailed{Reason: err.Error()}
	}

	var rr routeResponse
	decodeErr := json.Unmarshal(body, &rr)

	if resp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if decodeErr == nil && rr.Message != "" {
			reason += ": " + rr.Message
		}
		log.Printf("[ERROR] Directions API error: service=%s coordinates=%d status=%d code=%s", service, coordCount, resp.StatusCode, rr.Code)
		return nil, &ErrDirectionsFailed{Code: rr.Code, Reason: reason}
	}
	if decodeErr != nil {
		log.Printf("[ERROR] Failed to decode directions response: service=%s coordinates=%d err=%v", service, coordCount, decodeErr)
		return nil, &ErrDirectionsFailed{Reason: decodeErr.Error()}
	}
	if rr.Code != "Ok" {
		log.Printf("[ERROR] Directions API returned error code: service=%s code=%s message=%s", service, rr.Code, rr.Message)
		return nil, &ErrDirectionsFailed{Code: rr.Code, Reason: rr.Message}
	}
	if len(rr.Routes) == 0 {
		return nil, &ErrDirectionsFailed{Code: rr.Code, Reason: "no routes returned"}
	}

	routes := make([]models.Route, len(rr.Routes))
	for i, r := range rr.Routes {
		routes[i] = models.Route{
			DistanceMeters: r.Distance,
			DurationSecs:   r.Duration,
			Summary:        legSummary(r),
			Geometry:       r.Geometry,
		}
	}

	log.Printf("[DIRECTIONS] Response: service=%s routes=%d distance=%.0f duration=%.0f",
		service, len(routes), routes[0].DistanceMeters, routes[0].DurationSecs)
	return routes, nil
}

func legSummary(r apiRoute) string {
	var parts []string
	for _, leg := range r.Legs {
		if leg.Summary != "" {
			parts = append(parts, leg.Summary)
		}
	}
	return strings.Join(parts, "; ")
}
