// Package geo holds the flat-plane geometry shared by clustering and waypoint
// sequencing. Coordinates are treated as Euclidean (lng, lat) pairs, which is
// only reasonable at city scale.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/stat"

	"comfort-route/internal/models"
)

// Distance returns the Euclidean distance between two coordinates in degree units
func Distance(a, b models.Coordinates) float64 {
	return planar.Distance(a.Point(), b.Point())
}

// PointDistance returns the Euclidean distance between two planar points
func PointDistance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Centroid returns the coordinate-wise mean of points.
// The second return value is false for an empty input, in which case no mean exists.
func Centroid(points []orb.Point) (orb.Point, bool) {
	if len(points) == 0 {
		return orb.Point{}, false
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p[0]
		ys[i] = p[1]
	}

	return orb.Point{stat.Mean(xs, nil), stat.Mean(ys, nil)}, true
}

// CoordinatesCentroid is Centroid for coordinates
func CoordinatesCentroid(coords []models.Coordinates) (models.Coordinates, bool) {
	points := make([]orb.Point, len(coords))
	for i, c := range coords {
		points[i] = c.Point()
	}

	center, ok := Centroid(points)
	if !ok {
		return models.Coordinates{}, false
	}
	return models.CoordinatesFromPoint(center), true
}

// PathLength returns the length of the open path start -> stops[0] -> ... -> stops[n-1]
func PathLength(start models.Coordinates, stops []models.Coordinates) float64 {
	total := 0.0
	prev := start
	for _, s := range stops {
		total += Distance(prev, s)
		prev = s
	}
	return total
}

// SearchBound returns the box spanned by start and end, padded on every side
func SearchBound(start, end models.Coordinates, padding float64) orb.Bound {
	b := orb.MultiPoint{start.Point(), end.Point()}.Bound()
	if padding > 0 {
		b = b.Pad(padding)
	}
	return b
}
