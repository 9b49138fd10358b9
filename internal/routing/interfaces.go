package routing

import (
	"fmt"

	"comfort-route/internal/models"
)

// Sequencer orders detour candidates into a path that begins at start.
// The result is always a permutation of candidates.
type Sequencer interface {
	Name() string
	Sequence(candidates []models.Coordinates, start models.Coordinates) []models.Coordinates
}

// Scorer rates how comfortable a route is on a 0-10 scale
type Scorer interface {
	Score(route *models.Route) float64
}

// ErrUnknownSequencer is returned when a sequencer name is not recognized
type ErrUnknownSequencer struct {
	Name string
}

func (e *ErrUnknownSequencer) Error() string {
	return fmt.Sprintf("unknown sequencer %q (expected %q or %q)", e.Name, SequencerGreedy, SequencerTwoOpt)
}
