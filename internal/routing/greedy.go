package routing

import (
	"math"

	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

// GreedySequencer orders candidates by repeatedly visiting the nearest unvisited one
type GreedySequencer struct{}

var _ Sequencer = GreedySequencer{}

// Name returns the sequencer name
func (GreedySequencer) Name() string {
	return SequencerGreedy
}

// Sequence returns candidates in nearest-neighbour order starting from start.
// Ties keep the candidate that appears first.
func (GreedySequencer) Sequence(candidates []models.Coordinates, start models.Coordinates) []models.Coordinates {
	if len(candidates) <= 1 {
		return candidates
	}

	remaining := make([]models.Coordinates, len(candidates))
	copy(remaining, candidates)

	ordered := make([]models.Coordinates, 0, len(candidates))
	current := start

	for len(remaining) > 0 {
		nearestIdx := findNearest(current, remaining)
		if nearestIdx < 0 {
			break
		}

		nearest := remaining[nearestIdx]
		ordered = append(ordered, nearest)
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
		current = nearest
	}

	return ordered
}

// findNearest returns the index of the candidate closest to from, or -1 if no
// candidate has a comparable distance
func findNearest(from models.Coordinates, candidates []models.Coordinates) int {
	nearest := -1
	minDistance := -1.0

	for i, c := range candidates {
		d := geo.Distance(from, c)
		if math.IsNaN(d) {
			continue
		}
		if minDistance < 0 || d < minDistance {
			minDistance = d
			nearest = i
		}
	}

	return nearest
}
