package trek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"
)

type createTripResponse struct {
	TrekID *int `json:"trek_id"`
}

// CreateTrip submits the trip. Creation is not idempotent, so the request
// is attempted exactly once.
func (c *Client) CreateTrip(ctx context.Context, trip domain.TripRequest) (_ int, err error) {
	defer obs.Time(ctx, "trek.CreateTrip")(&err)

	if trip.Origin == "" || trip.Destination == "" {
		return 0, errors.New("create trip: origin and destination must be non-empty")
	}
	if trip.Waypoints == nil {
		trip.Waypoints = [][2]float64{}
	}

	payload, err := json.Marshal(trip)
	if err != nil {
		return 0, fmt.Errorf("create trip: marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/trek/", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create trip: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("create trip: %w", err)
	}
	defer resp.Body.Close()

	var decoded createTripResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("create trip: decode response: %w", err)
	}
	if decoded.TrekID == nil {
		return 0, errors.New("create trip: response has no trek_id")
	}

	return *decoded.TrekID, nil
}
