package routing

import (
	"math"

	"comfort-route/internal/models"
)

const (
	// MaxComfortScore is the top of the comfort scale
	MaxComfortScore = 10.0
	// DefaultComfortScore is what every route scores until a real model exists
	DefaultComfortScore = 8.0
)

// ConstantScorer gives every route the same score
type ConstantScorer struct {
	Value float64
}

var _ Scorer = ConstantScorer{}

// NewConstantScorer creates a scorer returning value clamped to [0, MaxComfortScore]
func NewConstantScorer(value float64) ConstantScorer {
	return ConstantScorer{Value: clampScore(value)}
}

// Score returns the configured value, or 0 for a missing route
func (s ConstantScorer) Score(route *models.Route) float64 {
	if route == nil {
		return 0
	}
	return clampScore(s.Value)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(MaxComfortScore, v))
}
