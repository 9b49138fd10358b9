package testutil

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"comfort-route/internal/geocoding"
	"comfort-route/internal/models"
)

// MockPlacesSearcher returns a fixed venue list
type MockPlacesSearcher struct {
	mu     sync.Mutex
	Venues []models.Venue
	Err    error
	Calls  int
}

func (m *MockPlacesSearcher) SearchVenues(ctx context.Context, start, end models.Coordinates) ([]models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Venue, len(m.Venues))
	copy(out, m.Venues)
	return out, nil
}

// DirectionsCall tracks a call to the directions provider
type DirectionsCall struct {
	Start     models.Coordinates
	End       models.Coordinates
	Waypoints []models.Coordinates
}

// MockDirectionsProvider returns one straight-line route through the requested points.
// Distances are Euclidean degrees scaled to meters for deterministic tests.
type MockDirectionsProvider struct {
	mu          sync.Mutex
	ScaleFactor float64
	Speed       float64
	Err         error
	Calls       []DirectionsCall
}

func NewMockDirectionsProvider() *MockDirectionsProvider {
	return &MockDirectionsProvider{
		ScaleFactor: 111000, // 1 degree ≈ 111km in meters
		Speed:       1.4,    // walking pace, m/s
	}
}

func (m *MockDirectionsProvider) GetRoutes(ctx context.Context, start, end models.Coordinates, waypoints []models.Coordinates) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, DirectionsCall{
		Start:     start,
		End:       end,
		Waypoints: append([]models.Coordinates(nil), waypoints...),
	})
	if m.Err != nil {
		return nil, m.Err
	}

	line := orb.LineString{start.Point()}
	for _, w := range waypoints {
		line = append(line, w.Point())
	}
	line = append(line, end.Point())

	length := 0.0
	for i := 1; i < len(line); i++ {
		dx := line[i][0] - line[i-1][0]
		dy := line[i][1] - line[i-1][1]
		length += math.Sqrt(dx*dx + dy*dy)
	}

	meters := length * m.ScaleFactor
	return []models.Route{{
		DistanceMeters: meters,
		DurationSecs:   meters / m.Speed,
		Geometry:       geojson.NewGeometry(line),
	}}, nil
}

// MockGeocoder resolves addresses from a fixed table, case-insensitively
type MockGeocoder struct {
	mu        sync.Mutex
	Addresses map[string]models.Coordinates
	Calls     []string
}

func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{Addresses: make(map[string]models.Coordinates)}
}

func (m *MockGeocoder) Add(address string, coords models.Coordinates) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Addresses[strings.ToLower(address)] = coords
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*geocoding.GeocodingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, address)
	coords, ok := m.Addresses[strings.ToLower(address)]
	if !ok {
		return nil, &geocoding.ErrGeocodingFailed{Address: address, Reason: "no results found"}
	}
	return &geocoding.GeocodingResult{Coords: coords, DisplayName: address}, nil
}

func (m *MockGeocoder) GeocodeWithRetry(ctx context.Context, address string, maxRetries int) (*geocoding.GeocodingResult, error) {
	return m.Geocode(ctx, address)
}
