package domain

// Payload submitted to the trip-creation endpoint.
type TripRequest struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Waypoints   [][2]float64 `json:"waypoints"`
}
