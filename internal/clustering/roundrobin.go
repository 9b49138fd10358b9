package clustering

import "github.com/paulmach/orb"

// RoundRobin deterministically assigns point i to cluster i mod k.
// It ignores coordinates entirely and cannot fail for k >= 1.
type RoundRobin struct{}

var _ Clusterer = RoundRobin{}

// Name returns the strategy name
func (RoundRobin) Name() string {
	return "round_robin"
}

// Assign returns i mod k for every point index i
func (rr RoundRobin) Assign(points []orb.Point, k int) (*Result, error) {
	if err := validateArgs(rr.Name(), k); err != nil {
		return nil, err
	}

	assignments := make([]int, len(points))
	for i := range points {
		assignments[i] = i % k
	}

	return &Result{
		Assignments: assignments,
		K:           k,
		Converged:   true,
		Strategy:    rr.Name(),
	}, nil
}
