package models

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coordinates represents a geographic point in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinates as a planar point (x = lng, y = lat)
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// IsFinite reports whether both components are finite numbers
func (c Coordinates) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

// Valid reports whether the coordinates are finite and inside the WGS84 range
func (c Coordinates) Valid() bool {
	if !c.IsFinite() {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// CoordinatesFromPoint converts a planar point back to coordinates
func CoordinatesFromPoint(p orb.Point) Coordinates {
	return Coordinates{Lat: p.Lat(), Lng: p.Lon()}
}

// RoundCoordinate rounds a coordinate to 5 decimal places (~1m), the precision used for cache keys
func RoundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// Venue is a point of interest returned by a places provider
type Venue struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category,omitempty"`
	Address        string  `json:"address,omitempty"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

// GetCoords returns the coordinates of the venue
func (v *Venue) GetCoords() Coordinates {
	return Coordinates{Lat: v.Lat, Lng: v.Lng}
}

// Route is a single route alternative returned by a directions provider
type Route struct {
	DistanceMeters float64           `json:"distance_meters"`
	DurationSecs   float64           `json:"duration_secs"`
	Summary        string            `json:"summary,omitempty"`
	Geometry       *geojson.Geometry `json:"geometry,omitempty"`
}

// LineString returns the route geometry as a line, or nil if it has none
func (r *Route) LineString() orb.LineString {
	if r == nil || r.Geometry == nil {
		return nil
	}
	ls, ok := r.Geometry.Coordinates.(orb.LineString)
	if !ok {
		return nil
	}
	return ls
}

// ClusterSummary describes one venue cluster
type ClusterSummary struct {
	Index      int          `json:"index"`
	VenueCount int          `json:"venue_count"`
	Centroid   *Coordinates `json:"centroid,omitempty"`
	VenueIDs   []string     `json:"venue_ids"`
}

// WaypointResult contains the clusters and the ordered detour waypoints derived from them
type WaypointResult struct {
	Clusters  []ClusterSummary `json:"clusters"`
	Waypoints []Coordinates    `json:"waypoints"`
}

// ComfortPlan is the full result of a comfort route calculation
type ComfortPlan struct {
	Start        Coordinates      `json:"start"`
	End          Coordinates      `json:"end"`
	Venues       []Venue          `json:"venues"`
	Clusters     []ClusterSummary `json:"clusters"`
	Waypoints    []Coordinates    `json:"waypoints"`
	Fastest      *Route           `json:"fastest"`
	Comfort      *Route           `json:"comfort"`
	ComfortScore float64          `json:"comfort_score"`
	Warnings     []string         `json:"warnings"`
}

// RouteCacheEntry represents a cached directions lookup
type RouteCacheEntry struct {
	Key    string  `json:"key"`
	Routes []Route `json:"routes"`
}
