package clustering

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Result is the outcome of a single clustering run
type Result struct {
	// Assignments holds the cluster index of every input point, in input order
	Assignments []int
	K           int
	Iterations  int
	Converged   bool
	Strategy    string
}

// Clusterer partitions points into k groups.
// Implementations return one cluster index in [0, k) per input point.
type Clusterer interface {
	Name() string
	Assign(points []orb.Point, k int) (*Result, error)
}

// ErrNonFiniteCoordinate is returned when an input point has a NaN or infinite component
var ErrNonFiniteCoordinate = errors.New("non-finite coordinate")

// ErrClusteringFailed is returned when a clustering strategy cannot produce a valid partition
type ErrClusteringFailed struct {
	Strategy string
	Reason   string
}

func (e *ErrClusteringFailed) Error() string {
	return fmt.Sprintf("clustering failed (%s): %s", e.Strategy, e.Reason)
}

func validateArgs(strategy string, k int) error {
	if k <= 0 {
		return &ErrClusteringFailed{Strategy: strategy, Reason: fmt.Sprintf("cluster count must be >= 1, got %d", k)}
	}
	return nil
}

// validateResult checks that res is a full partition of n points into k clusters
func validateResult(res *Result, n, k int) error {
	if res == nil {
		return errors.New("nil result")
	}
	if len(res.Assignments) != n {
		return fmt.Errorf("expected %d assignments, got %d", n, len(res.Assignments))
	}
	for i, c := range res.Assignments {
		if c < 0 || c >= k {
			return fmt.Errorf("point %d assigned to cluster %d outside [0, %d)", i, c, k)
		}
	}
	return nil
}
