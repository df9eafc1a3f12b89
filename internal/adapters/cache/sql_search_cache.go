package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"
)

// SQLSearchCache is a Postgres-backed cache mapping search queries to
// the candidate locations the backend returned for them.
type SQLSearchCache struct {
	DB *sql.DB
}

func NewSQLSearchCache(db *sql.DB) *SQLSearchCache {
	return &SQLSearchCache{DB: db}
}

// Fetch cached candidates for a query.
func (s *SQLSearchCache) Get(ctx context.Context, query string) (_ []domain.Location, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("search cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}

	q := `
	SELECT locations
    FROM location_search_cache
    WHERE query = $1;
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
func (s *SQLSearchCache) Put(ctx context.Context, query string, locations []domain.Location) error {
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
	INSERT INTO location_search_cache (query, locations)
    VALUES ($1, $2)
	ON CONFLICT (query) DO UPDATE
	SET locations = EXCLUDED.locations;
	`, query, raw)
	if err != nil {
		return fmt.Errorf("insert search cache query=%q: %w", query, err)
	}

	return nil
}

func encodeLocations(locations []domain.Location) (string, error) {
	if locations == nil {
		locations = []domain.Location{}
	}
	b, err := json.Marshal(locations)
	if err != nil {
		return "", fmt.Errorf("encode locations: %w", err)
	}
	return string(b), nil
}

func decodeLocations(raw string) ([]domain.Location, error) {
	var locs []domain.Location
	if err := json.Unmarshal([]byte(raw), &locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	return locs, nil
}
