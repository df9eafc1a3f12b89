package ports

import (
	"context"
	"trek-planner/internal/domain"
)

// Cache of location search results keyed by normalized query text.
type SearchCache interface {
	// Return cached locations for the query and whether they were found.
	Get(ctx context.Context, query string) ([]domain.Location, bool, error)
	// Store the locations returned for the query.
	Put(ctx context.Context, query string, locations []domain.Location) error
}

// Cache of computed routes keyed by domain.RouteRequest.CacheKey.
type RouteCache interface {
	Get(ctx context.Context, key string) (*domain.Route, bool, error)
	Put(ctx context.Context, key string, route *domain.Route) error
}
