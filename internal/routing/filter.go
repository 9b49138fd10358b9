package routing

import (
	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

// DefaultMinWaypointDistance is the minimum distance, in degree units, a centroid must
// keep from both the start and the end point to be worth a detour (about 1km).
const DefaultMinWaypointDistance = 0.01

// ClusterCenters returns the centroid of every non-empty cluster, in cluster order
func ClusterCenters(clusters [][]models.Venue) []models.Coordinates {
	centers := make([]models.Coordinates, 0, len(clusters))
	for _, cluster := range clusters {
		if len(cluster) == 0 {
			continue
		}

		coords := make([]models.Coordinates, len(cluster))
		for i := range cluster {
			coords[i] = cluster[i].GetCoords()
		}
		if center, ok := geo.CoordinatesCentroid(coords); ok {
			centers = append(centers, center)
		}
	}
	return centers
}

// FilterCentroids keeps the centroids that are strictly farther than minDistance from
// both start and end. A non-positive minDistance means DefaultMinWaypointDistance.
func FilterCentroids(centroids []models.Coordinates, start, end models.Coordinates, minDistance float64) []models.Coordinates {
	if minDistance <= 0 {
		minDistance = DefaultMinWaypointDistance
	}

	kept := make([]models.Coordinates, 0, len(centroids))
	for _, c := range centroids {
		if geo.Distance(c, start) > minDistance && geo.Distance(c, end) > minDistance {
			kept = append(kept, c)
		}
	}
	return kept
}
