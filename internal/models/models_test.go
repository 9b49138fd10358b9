package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueGetCoords(t *testing.T) {
	v := Venue{
		Lat: 40.7128,
		Lng: -74.0060,
	}

	coords := v.GetCoords()

	assert.Equal(t, 40.7128, coords.Lat)
	assert.Equal(t, -74.0060, coords.Lng)
}

func TestCoordinatesPointIsLngLat(t *testing.T) {
	coords := Coordinates{Lat: 40.7306, Lng: -73.9352}

	p := coords.Point()

	assert.Equal(t, -73.9352, p.X())
	assert.Equal(t, 40.7306, p.Y())
	assert.Equal(t, coords, CoordinatesFromPoint(p))
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		name   string
		coords Coordinates
		valid  bool
	}{
		{"nyc", Coordinates{Lat: 40.7128, Lng: -74.0060}, true},
		{"origin", Coordinates{}, true},
		{"lat out of range", Coordinates{Lat: 91, Lng: 0}, false},
		{"lng out of range", Coordinates{Lat: 0, Lng: -181}, false},
		{"nan", Coordinates{Lat: math.NaN(), Lng: 0}, false},
		{"inf", Coordinates{Lat: 0, Lng: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.coords.Valid())
		})
	}
}

func TestRoundCoordinate(t *testing.T) {
	assert.Equal(t, 40.71235, RoundCoordinate(40.712345678))
	assert.Equal(t, -74.00601, RoundCoordinate(-74.006012345))
}

func TestRouteLineString(t *testing.T) {
	var r *Route
	assert.Nil(t, r.LineString())

	line := orb.LineString{{-74.0060, 40.7128}, {-73.9352, 40.7306}}
	r = &Route{DistanceMeters: 7200, DurationSecs: 5400, Geometry: geojson.NewGeometry(line)}
	assert.Equal(t, line, r.LineString())

	r = &Route{Geometry: geojson.NewGeometry(orb.Point{1, 2})}
	assert.Nil(t, r.LineString())
}

func TestRouteGeometryJSON(t *testing.T) {
	raw := `{"distance_meters":1200,"duration_secs":900,"geometry":{"type":"LineString","coordinates":[[-74.006,40.7128],[-73.99,40.72]]}}`

	var r Route
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, 1200.0, r.DistanceMeters)
	require.Len(t, r.LineString(), 2)
	assert.Equal(t, orb.Point{-73.99, 40.72}, r.LineString()[1])
}
