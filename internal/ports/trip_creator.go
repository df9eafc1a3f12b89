package ports

import (
	"context"
	"trek-planner/internal/domain"
)

// Port: a boundary for submitting an assembled trip.
type TripCreator interface {
	// Create the trip and return its identifier.
	CreateTrip(ctx context.Context, trip domain.TripRequest) (int, error)
}
