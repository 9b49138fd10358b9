package clustering

import (
	"log"

	"github.com/paulmach/orb"

	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

// Partition groups items into k buckets following assignments.
// Every bucket is non-nil, so an empty cluster is an empty slice.
func Partition[T any](items []T, assignments []int, k int) [][]T {
	if k <= 0 {
		return [][]T{}
	}

	clusters := make([][]T, k)
	for c := range clusters {
		clusters[c] = []T{}
	}
	for i, item := range items {
		c := assignments[i]
		clusters[c] = append(clusters[c], item)
	}
	return clusters
}

// ClusterItems partitions items into exactly k clusters (none for k <= 0) using c.
// Failures of c never reach the caller: c is run behind a Resilient wrapper, and
// if even that fails the items are split round-robin.
func ClusterItems[T any](c Clusterer, items []T, k int, locate func(T) orb.Point) [][]T {
	if k <= 0 {
		return [][]T{}
	}

	points := make([]orb.Point, len(items))
	for i, item := range items {
		points[i] = locate(item)
	}

	r, ok := c.(*Resilient)
	if !ok {
		r = NewResilient(c)
	}

	res, err := r.Assign(points, k)
	if err == nil {
		err = validateResult(res, len(points), k)
	}
	if err != nil {
		log.Printf("[ERROR] Clustering fallback failed, splitting round-robin: items=%d k=%d err=%v", len(items), k, err)
		res, _ = RoundRobin{}.Assign(points, k)
	}

	return Partition(items, res.Assignments, k)
}

// ClusterVenues partitions venues into exactly k clusters by location
func ClusterVenues(c Clusterer, venues []models.Venue, k int) [][]models.Venue {
	return ClusterItems(c, venues, k, func(v models.Venue) orb.Point {
		return v.GetCoords().Point()
	})
}

// Summarize describes each cluster; empty clusters get no centroid
func Summarize(clusters [][]models.Venue) []models.ClusterSummary {
	summaries := make([]models.ClusterSummary, len(clusters))
	for i, cluster := range clusters {
		ids := make([]string, 0, len(cluster))
		coords := make([]models.Coordinates, 0, len(cluster))
		for j := range cluster {
			ids = append(ids, cluster[j].ID)
			coords = append(coords, cluster[j].GetCoords())
		}

		summaries[i] = models.ClusterSummary{
			Index:      i,
			VenueCount: len(cluster),
			VenueIDs:   ids,
		}
		if center, ok := geo.CoordinatesCentroid(coords); ok {
			summaries[i].Centroid = &center
		}
	}
	return summaries
}
