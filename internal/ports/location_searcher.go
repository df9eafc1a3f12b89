package ports

import (
	"context"
	"trek-planner/internal/domain"
)

// Contract for resolving free text (or "lat,lon") into candidate locations.
type LocationSearcher interface {
	// Return candidate locations for the query, best match first.
	SearchLocations(ctx context.Context, query string) ([]domain.Location, error)
}
