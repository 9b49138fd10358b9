package clustering

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"
)

// Resilient runs a primary clusterer and substitutes the fallback whenever the
// primary returns an error, panics, or produces something that is not a full
// partition. Partial primary results are discarded.
type Resilient struct {
	Primary  Clusterer
	Fallback Clusterer
}

var _ Clusterer = (*Resilient)(nil)

// NewResilient wraps primary with the round-robin fallback
func NewResilient(primary Clusterer) *Resilient {
	return &Resilient{
		Primary:  primary,
		Fallback: RoundRobin{},
	}
}

// Name returns the primary strategy name
func (r *Resilient) Name() string {
	return strategyName(r.Primary)
}

// Assign returns the primary result when it is valid, otherwise the fallback result
func (r *Resilient) Assign(points []orb.Point, k int) (*Result, error) {
	res, err := r.tryPrimary(points, k)
	if err == nil {
		return res, nil
	}

	log.Printf("[CLUSTER] Primary strategy failed, using fallback: primary=%s fallback=%s points=%d k=%d err=%v",
		strategyName(r.Primary), strategyName(r.Fallback), len(points), k, err)

	if r.Fallback == nil {
		return nil, err
	}
	return r.Fallback.Assign(points, k)
}

func (r *Resilient) tryPrimary(points []orb.Point, k int) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &ErrClusteringFailed{Strategy: strategyName(r.Primary), Reason: fmt.Sprintf("panic: %v", p)}
		}
	}()

	res, err = r.Primary.Assign(points, k)
	if err != nil {
		return nil, err
	}
	if verr := validateResult(res, len(points), k); verr != nil {
		return nil, &ErrClusteringFailed{Strategy: strategyName(r.Primary), Reason: verr.Error()}
	}
	return res, nil
}

func strategyName(c Clusterer) string {
	if c == nil {
		return "none"
	}
	return c.Name()
}
