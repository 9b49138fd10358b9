// Package planner assembles a comfort plan: venues around the trip are
// clustered, the clusters become detour waypoints, and both the direct and the
// detouring route are fetched and scored.
package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"comfort-route/internal/clustering"
	"comfort-route/internal/directions"
	"comfort-route/internal/geocoding"
	"comfort-route/internal/models"
	"comfort-route/internal/places"
	"comfort-route/internal/routing"
)

const (
	DefaultClusterCount = 3
	geocodeRetries      = 3
)

// PlanRequest describes one trip. Coordinates win over addresses when both are given.
type PlanRequest struct {
	Start        *models.Coordinates
	End          *models.Coordinates
	StartAddress string
	EndAddress   string
	K            int
}

// ErrInvalidRequest is returned for requests that cannot be planned as given
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Config wires a Planner. Places and Directions are required; the rest default.
type Config struct {
	Places              places.Searcher
	Directions          directions.Provider
	Geocoder            geocoding.Geocoder
	Clusterer           clustering.Clusterer
	Sequencer           routing.Sequencer
	Scorer              routing.Scorer
	DefaultK            int
	MinWaypointDistance float64
}

// Planner runs the comfort route pipeline
type Planner struct {
	places      places.Searcher
	directions  directions.Provider
	geocoder    geocoding.Geocoder
	clusterer   clustering.Clusterer
	sequencer   routing.Sequencer
	scorer      routing.Scorer
	defaultK    int
	minDistance float64
}

// New creates a Planner, filling unset collaborators with defaults
func New(cfg Config) *Planner {
	p := &Planner{
		places:      cfg.Places,
		directions:  cfg.Directions,
		geocoder:    cfg.Geocoder,
		clusterer:   cfg.Clusterer,
		sequencer:   cfg.Sequencer,
		scorer:      cfg.Scorer,
		defaultK:    cfg.DefaultK,
		minDistance: cfg.MinWaypointDistance,
	}
	if p.clusterer == nil {
		p.clusterer = clustering.NewResilient(clustering.NewKMeans(nil, clustering.DefaultMaxIterations))
	}
	if p.sequencer == nil {
		p.sequencer = routing.GreedySequencer{}
	}
	if p.scorer == nil {
		p.scorer = routing.NewConstantScorer(routing.DefaultComfortScore)
	}
	if p.defaultK < 1 {
		p.defaultK = DefaultClusterCount
	}
	if p.minDistance <= 0 {
		p.minDistance = routing.DefaultMinWaypointDistance
	}
	return p
}

// SequencerName returns the name of the configured sequencer
func (p *Planner) SequencerName() string {
	return p.sequencer.Name()
}

// Waypoints clusters venues and derives the ordered detour waypoints without any network calls.
// k == 0 uses the default cluster count.
func (p *Planner) Waypoints(venues []models.Venue, start, end models.Coordinates, k int) *models.WaypointResult {
	if k == 0 {
		k = p.defaultK
	}

	clusters := clustering.ClusterVenues(p.clusterer, venues, k)
	waypoints := routing.DetermineWaypoints(clusters, start, end, p.minDistance, p.sequencer)

	return &models.WaypointResult{
		Clusters:  clustering.Summarize(clusters),
		Waypoints: waypoints,
	}
}

// Plan fetches venues, derives waypoints and returns the fastest and comfort routes
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*models.ComfortPlan, error) {
	startTime := time.Now()

	if req.K < 0 {
		return nil, &ErrInvalidRequest{Field: "k", Reason: "must not be negative"}
	}

	start, err := p.resolve(ctx, "start", req.Start, req.StartAddress)
	if err != nil {
		return nil, err
	}
	end, err := p.resolve(ctx, "end", req.End, req.EndAddress)
	if err != nil {
		return nil, err
	}

	log.Printf("[PLANNER] Plan started: start=(%.6f,%.6f) end=(%.6f,%.6f) k=%d",
		start.Lat, start.Lng, end.Lat, end.Lng, req.K)

	venues, err := p.places.SearchVenues(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}

	wp := p.Waypoints(venues, start, end, req.K)

	plan := &models.ComfortPlan{
		Start:     start,
		End:       end,
		Venues:    venues,
		Clusters:  wp.Clusters,
		Waypoints: wp.Waypoints,
		Warnings:  []string{},
	}
	if len(venues) == 0 {
		plan.Warnings = append(plan.Warnings, "no venues found near the route")
	}

	fastestRoutes, err := p.directions.GetRoutes(ctx, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fastest route: %w", err)
	}
	if len(fastestRoutes) == 0 {
		return nil, &directions.ErrDirectionsFailed{Reason: "no fastest route returned"}
	}
	plan.Fastest = fastest(fastestRoutes)

	if len(wp.Waypoints) == 0 {
		plan.Comfort = plan.Fastest
		plan.Warnings = append(plan.Warnings, "no detour waypoints survived filtering; comfort route equals the fastest route")
	} else {
		comfortRoutes, err := p.directions.GetRoutes(ctx, start, end, wp.Waypoints)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch comfort route: %w", err)
		}
		if len(comfortRoutes) == 0 {
			return nil, &directions.ErrDirectionsFailed{Reason: "no comfort route returned"}
		}
		plan.Comfort = &comfortRoutes[0]
	}

	plan.ComfortScore = p.scorer.Score(plan.Comfort)

	log.Printf("[PLANNER] Plan finished: venues=%d clusters=%d waypoints=%d score=%.1f warnings=%d duration=%v",
		len(venues), len(plan.Clusters), len(plan.Waypoints), plan.ComfortScore, len(plan.Warnings), time.Since(startTime))

	return plan, nil
}

// resolve returns coords when given, otherwise geocodes address
func (p *Planner) resolve(ctx context.Context, field string, coords *models.Coordinates, address string) (models.Coordinates, error) {
	if coords != nil {
		if !coords.Valid() {
			return models.Coordinates{}, &ErrInvalidRequest{Field: field, Reason: "coordinates must be finite with lat in [-90,90] and lng in [-180,180]"}
		}
		return *coords, nil
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return models.Coordinates{}, &ErrInvalidRequest{Field: field, Reason: "coordinates or address required"}
	}
	if p.geocoder == nil {
		return models.Coordinates{}, &ErrInvalidRequest{Field: field + "_address", Reason: "address lookup is not configured"}
	}

	result, err := p.geocoder.GeocodeWithRetry(ctx, address, geocodeRetries)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to geocode %s address: %w", field, err)
	}
	return result.Coords, nil
}

// fastest returns the alternative with the shortest duration; routes must be non-empty
func fastest(routes []models.Route) *models.Route {
	best := 0
	for i := range routes {
		if routes[i].DurationSecs < routes[best].DurationSecs {
			best = i
		}
	}
	return &routes[best]
}
