package clustering

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"comfort-route/internal/geo"
)

// DefaultMaxIterations bounds a k-means run. It is the only termination guarantee:
// reinitializing empty centroids can keep a run from ever settling.
const DefaultMaxIterations = 100

// KMeans is Lloyd's k-means over raw (lng, lat) coordinates with Euclidean distance.
// The random source is injected so runs are reproducible under test; it is
// guarded by a mutex so one KMeans can be shared between requests.
type KMeans struct {
	mu            sync.Mutex
	rng           *rand.Rand
	maxIterations int
}

var _ Clusterer = (*KMeans)(nil)

// NewKMeans creates a k-means clusterer. A nil rng is replaced by a time-seeded
// source and maxIterations < 1 falls back to DefaultMaxIterations.
func NewKMeans(rng *rand.Rand, maxIterations int) *KMeans {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	return &KMeans{
		rng:           rng,
		maxIterations: maxIterations,
	}
}

// Name returns the strategy name
func (km *KMeans) Name() string {
	return "kmeans"
}

// MaxIterations returns the iteration cap
func (km *KMeans) MaxIterations() int {
	return km.maxIterations
}

// Assign runs k-means and returns the cluster index of every point
func (km *KMeans) Assign(points []orb.Point, k int) (*Result, error) {
	if err := validateArgs(km.Name(), k); err != nil {
		return nil, err
	}
	for _, p := range points {
		if !isFinite(p) {
			return nil, ErrNonFiniteCoordinate
		}
	}

	n := len(points)
	if n == 0 {
		return &Result{Assignments: []int{}, K: k, Converged: true, Strategy: km.Name()}, nil
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	centroids := km.seed(points, k)

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	iterations := 0
	converged := false
	for iterations < km.maxIterations {
		changed := assignNearest(points, centroids, assignments)
		reinitialized := km.recalculateCentroids(points, centroids, assignments)
		iterations++

		if !changed && reinitialized == 0 {
			converged = true
			break
		}
	}

	// Centroids moved during the last update; keep the assignments consistent with them.
	assignNearest(points, centroids, assignments)

	log.Printf("[CLUSTER] k-means finished: points=%d k=%d iterations=%d converged=%v", n, k, iterations, converged)

	return &Result{
		Assignments: assignments,
		K:           k,
		Iterations:  iterations,
		Converged:   converged,
		Strategy:    km.Name(),
	}, nil
}

// seed picks up to k distinct input points as initial centroids, chosen uniformly
// without replacement. Missing slots repeat the chosen centroids in order.
func (km *KMeans) seed(points []orb.Point, k int) []orb.Point {
	n := len(points)
	used := k
	if used > n {
		used = n
	}

	centroids := make([]orb.Point, 0, k)
	for _, idx := range km.rng.Perm(n)[:used] {
		centroids = append(centroids, points[idx])
	}
	for len(centroids) < k {
		centroids = append(centroids, centroids[len(centroids)%used])
	}
	return centroids
}

// recalculateCentroids moves every centroid to the mean of its members and returns
// how many empty centroids were reinitialized to a random input point.
func (km *KMeans) recalculateCentroids(points []orb.Point, centroids []orb.Point, assignments []int) int {
	members := make([][]orb.Point, len(centroids))
	for i, p := range points {
		members[assignments[i]] = append(members[assignments[i]], p)
	}

	reinitialized := 0
	for c := range centroids {
		center, ok := geo.Centroid(members[c])
		if !ok {
			centroids[c] = points[km.rng.Intn(len(points))]
			reinitialized++
			continue
		}
		centroids[c] = center
	}
	return reinitialized
}

// assignNearest assigns every point to its closest centroid, keeping the lowest
// index on ties. It reports whether any assignment changed.
func assignNearest(points []orb.Point, centroids []orb.Point, assignments []int) bool {
	changed := false
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			d := geo.PointDistance(p, centroid)
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

func isFinite(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
