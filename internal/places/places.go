// Package places finds venues between a start and an end point.
package places

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"comfort-route/internal/geo"
	"comfort-route/internal/models"
)

// DefaultSearchPadding widens the start/end box by roughly 1km on every side
const DefaultSearchPadding = 0.01

// Searcher returns venues around the region spanned by start and end
type Searcher interface {
	SearchVenues(ctx context.Context, start, end models.Coordinates) ([]models.Venue, error)
}

// ErrPlacesSearchFailed is returned when a places provider cannot be queried
type ErrPlacesSearchFailed struct {
	Provider string
	Reason   string
}

func (e *ErrPlacesSearchFailed) Error() string {
	return fmt.Sprintf("places search failed (%s): %s", e.Provider, e.Reason)
}

// searchRegion returns the padded bound around start and end and its center
func searchRegion(start, end models.Coordinates, padding float64) (orb.Bound, models.Coordinates) {
	if padding <= 0 {
		padding = DefaultSearchPadding
	}
	bound := geo.SearchBound(start, end, padding)
	return bound, models.CoordinatesFromPoint(bound.Center())
}

// keepValid drops venues whose coordinates are missing, non-finite or out of range
func keepValid(provider string, venues []models.Venue) []models.Venue {
	kept := make([]models.Venue, 0, len(venues))
	dropped := 0
	for _, v := range venues {
		if !v.GetCoords().Valid() {
			dropped++
			continue
		}
		kept = append(kept, v)
	}
	if dropped > 0 {
		log.Printf("[PLACES] Dropped venues with invalid coordinates: provider=%s dropped=%d kept=%d", provider, dropped, len(kept))
	}
	return kept
}
