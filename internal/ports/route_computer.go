package ports

import (
	"context"
	"trek-planner/internal/domain"
)

// Contract for computing a route through an ordered waypoint chain.
type RouteComputer interface {
	// Return the route, or a *domain.RouteError when the service reports
	// that no route exists for the request.
	ComputeRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error)
}
