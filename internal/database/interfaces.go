package database

import (
	"context"
	"fmt"
	"strings"

	"comfort-route/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	RouteCache() RouteCacheRepository
}

// RouteCacheRepository handles persistence of directions responses.
// Get returns nil, nil on a miss.
type RouteCacheRepository interface {
	Get(ctx context.Context, key string) (*models.RouteCacheEntry, error)
	Set(ctx context.Context, entry *models.RouteCacheEntry) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// RouteCacheKey builds the cache key for a directions lookup. Coordinates are
// rounded to 5 decimal places (~1m) so nearby requests share an entry.
func RouteCacheKey(profile string, coords []models.Coordinates) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%.5f,%.5f", models.RoundCoordinate(c.Lng), models.RoundCoordinate(c.Lat))
	}
	return profile + ":" + strings.Join(parts, ";")
}
