package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"
)

// SQLite backed cache mapping search queries to candidate locations.
// Query keys are expected to be normalized by the caller.
type SqliteSearchCache struct {
	DB *sql.DB
}

func NewSqliteSearchCache(db *sql.DB) *SqliteSearchCache {
	return &SqliteSearchCache{DB: db}
}

// Fetch cached candidates for a query.
func (s *SqliteSearchCache) Get(ctx context.Context, query string) (_ []domain.Location, _ bool, err error) {
	defer obs.Time(ctx, "search.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("search cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}

	q := `
	SELECT
        locations
    FROM location_search_cache
    WHERE query = ?;
	`

	var raw string
	if err := s.DB.QueryRowContext(ctx, q, query).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get search cache: query location_search_cache table: %w", err)
	}

	locs, err := decodeLocations(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get search cache: %w", err)
	}

	return locs, true, nil
}

// Store the candidates returned for a query.
func (s *SqliteSearchCache) Put(ctx context.Context, query string, locations []domain.Location) error {
	if s.DB == nil {
		return errors.New("search cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("insert search cache: empty query key")
	}

	raw, err := encodeLocations(locations)
	if err != nil {
		return fmt.Errorf("insert search cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO location_search_cache (
        query,
        locations
    )
    VALUES (?, ?);
	`, query, raw)
	if err != nil {
		return fmt.Errorf("insert search cache query=%q: %w", query, err)
	}

	return nil
}
