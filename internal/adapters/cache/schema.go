package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"trek-planner/internal/domain"
	"trek-planner/internal/ports"
)

// Initialize the cache schema. The statements are valid for both
// Postgres and SQLite.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSearchCacheQuery := `
	CREATE TABLE IF NOT EXISTS location_search_cache (
        query TEXT PRIMARY KEY,
        locations TEXT NOT NULL
    );
	`

	statements := []string{
		createSearchCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate a search cache from a JSON file mapping query text to locations,
// e.g. {"Larkoll": [{"name": "Larkollveien", "latitude": 59.4, "longitude": 10.69}]}.
// Returns the number of queries stored.
func SeedFromJSON(ctx context.Context, c ports.SearchCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed search cache: read %q: %w", jsonPath, err)
	}

	var data map[string][]domain.Location
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed search cache: parse json: %w", err)
	}

	n := 0
	for query, locs := range data {
		q := strings.Join(strings.Fields(query), " ")
		if q == "" {
			return n, errors.New("seed search cache: query cannot be empty")
		}
		for i, l := range locs {
			if strings.TrimSpace(l.Name) == "" {
				return n, fmt.Errorf("seed search cache: query %q location %d: name cannot be empty", q, i+1)
			}
		}

		if err := c.Put(ctx, q, locs); err != nil {
			return n, fmt.Errorf("seed search cache: %w", err)
		}
		n++
	}

	return n, nil
}
