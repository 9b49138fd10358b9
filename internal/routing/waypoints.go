package routing

import (
	"log"
	"strings"

	"comfort-route/internal/models"
)

// Sequencer names accepted by NewSequencer
const (
	SequencerGreedy = "greedy"
	SequencerTwoOpt = "two_opt"
)

// NewSequencer returns the sequencer registered under name. An empty name selects greedy.
func NewSequencer(name string) (Sequencer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SequencerGreedy:
		return GreedySequencer{}, nil
	case SequencerTwoOpt, "2opt", "2-opt":
		return TwoOptSequencer{MaxPasses: DefaultTwoOptPasses}, nil
	default:
		return nil, &ErrUnknownSequencer{Name: name}
	}
}

// DetermineWaypoints turns clusters into an ordered list of detour waypoints:
// centroids of non-empty clusters, minus those too close to start or end,
// sequenced from start. A nil seq uses the greedy sequencer.
func DetermineWaypoints(clusters [][]models.Venue, start, end models.Coordinates, minDistance float64, seq Sequencer) []models.Coordinates {
	if seq == nil {
		seq = GreedySequencer{}
	}

	centers := ClusterCenters(clusters)
	candidates := FilterCentroids(centers, start, end, minDistance)
	waypoints := seq.Sequence(candidates, start)

	log.Printf("[ROUTING] Waypoints determined: clusters=%d centroids=%d kept=%d sequencer=%s",
		len(clusters), len(centers), len(waypoints), seq.Name())

	return waypoints
}
