package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"comfort-route/internal/models"
)

type routeCacheRepository struct {
	store *Store
}

func (r *routeCacheRepository) Get(ctx context.Context, key string) (*models.RouteCacheEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var raw string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT routes_json FROM route_cache WHERE cache_key = ?`, key,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route cache entry: %w", err)
	}

	entry := &models.RouteCacheEntry{Key: key}
	if err := json.Unmarshal([]byte(raw), &entry.Routes); err != nil {
		return nil, fmt.Errorf("failed to decode route cache entry %q: %w", key, err)
	}

	return entry, nil
}

func (r *routeCacheRepository) Set(ctx context.Context, entry *models.RouteCacheEntry) error {
	if entry == nil || entry.Key == "" {
		return errors.New("route cache entry requires a key")
	}

	raw, err := json.Marshal(entry.Routes)
	if err != nil {
		return fmt.Errorf("failed to encode route cache entry %q: %w", entry.Key, err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err = r.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO route_cache (cache_key, routes_json) VALUES (?, ?)`,
		entry.Key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to set route cache entry: %w", err)
	}

	return nil
}

func (r *routeCacheRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM route_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count route cache entries: %w", err)
	}
	return n, nil
}

func (r *routeCacheRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, err := r.store.db.ExecContext(ctx, "DELETE FROM route_cache"); err != nil {
		return fmt.Errorf("failed to clear route cache: %w", err)
	}

	return nil
}
