package routing

import (
	"log"

	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

// DefaultTwoOptPasses bounds the number of improvement sweeps
const DefaultTwoOptPasses = 50

// TwoOptSequencer improves the greedy order with 2-opt segment reversals on the
// open path from start. The last stop has no outgoing edge.
type TwoOptSequencer struct {
	MaxPasses int
}

var _ Sequencer = TwoOptSequencer{}

// Name returns the sequencer name
func (TwoOptSequencer) Name() string {
	return SequencerTwoOpt
}

// Sequence returns a permutation of candidates no longer than the greedy order
func (s TwoOptSequencer) Sequence(candidates []models.Coordinates, start models.Coordinates) []models.Coordinates {
	stops := GreedySequencer{}.Sequence(candidates, start)
	if len(stops) < 3 {
		return stops
	}

	maxPasses := s.MaxPasses
	if maxPasses < 1 {
		maxPasses = DefaultTwoOptPasses
	}

	before := geo.PathLength(start, stops)
	passes := 0
	improved := true
	for improved && passes < maxPasses {
		improved = false
		passes++

		for i := 0; i < len(stops)-1; i++ {
			for j := i + 1; j < len(stops); j++ {
				if reversalGain(start, stops, i, j) > 1e-12 {
					reverse(stops, i, j)
					improved = true
				}
			}
		}
	}

	log.Printf("[ROUTING] 2-opt finished: stops=%d passes=%d length_before=%.6f length_after=%.6f",
		len(stops), passes, before, geo.PathLength(start, stops))

	return stops
}

// reversalGain returns how much shorter the path gets by reversing stops[i..j]
func reversalGain(start models.Coordinates, stops []models.Coordinates, i, j int) float64 {
	beforeI := start
	if i > 0 {
		beforeI = stops[i-1]
	}

	// Current edges: beforeI->stops[i] and stops[j]->afterJ
	// After reverse: beforeI->stops[j] and stops[i]->afterJ
	current := geo.Distance(beforeI, stops[i])
	reversed := geo.Distance(beforeI, stops[j])

	if j+1 < len(stops) {
		afterJ := stops[j+1]
		current += geo.Distance(stops[j], afterJ)
		reversed += geo.Distance(stops[i], afterJ)
	}

	return current - reversed
}

func reverse(stops []models.Coordinates, i, j int) {
	for i < j {
		stops[i], stops[j] = stops[j], stops[i]
		i++
		j--
	}
}
