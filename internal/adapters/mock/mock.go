package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"trek-planner/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// LocationSearcher answers searches from a fixed table keyed by query.
// Unknown queries return no locations.
type LocationSearcher struct {
	m map[string][]domain.Location
}

func NewLocationSearcher(m map[string][]domain.Location) *LocationSearcher {
	norm := make(map[string][]domain.Location, len(m))
	for q, locs := range m {
		norm[key(q)] = locs
	}
	return &LocationSearcher{m: norm}
}

// LoadLocationSearcher reads the table from a JSON file mapping query text
// to locations, the same format the search cache is seeded from.
func LoadLocationSearcher(path string) (*LocationSearcher, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load locations: read %q: %w", path, err)
	}

	var m map[string][]domain.Location
	if err := json.Unmarshal(bytes, &m); err != nil {
		return nil, fmt.Errorf("load locations: parse json: %w", err)
	}
	return NewLocationSearcher(m), nil
}

func (s *LocationSearcher) SearchLocations(ctx context.Context, query string) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locs, ok := s.m[key(query)]
	if !ok {
		return []domain.Location{}, nil
	}
	return locs, nil
}

func key(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// RouteComputer draws straight lines between the requested waypoints.
// Skipped segments are still drawn but add no distance.
type RouteComputer struct {
	mu       sync.Mutex
	requests []domain.RouteRequest
}

func NewRouteComputer() *RouteComputer {
	return &RouteComputer{}
}

func (r *RouteComputer) ComputeRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	points := []domain.Coordinates{req.Start}
	points = append(points, req.Via...)
	points = append(points, req.Stop)

	skipped := make(map[int]bool, len(req.SkipSegments))
	for _, s := range req.SkipSegments {
		if s < 1 || s >= len(points) {
			return nil, &domain.RouteError{Code: "2004", Message: fmt.Sprintf("skip segment %d out of range", s)}
		}
		skipped[s] = true
	}

	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, p.Point())
	}

	var meters float64
	for i := 1; i < len(line); i++ {
		if skipped[i] {
			continue
		}
		meters += geo.DistanceHaversine(line[i-1], line[i])
	}

	return &domain.Route{
		Geometry: line,
		Distance: meters / 1000,
		BBox:     line.Bound(),
	}, nil
}

// Requests returns every request received so far.
func (r *RouteComputer) Requests() []domain.RouteRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RouteRequest(nil), r.requests...)
}

// TripCreator hands out increasing trip IDs.
type TripCreator struct {
	mu    sync.Mutex
	next  int
	trips map[int]domain.TripRequest
}

func NewTripCreator() *TripCreator {
	return &TripCreator{next: 1, trips: make(map[int]domain.TripRequest)}
}

func (t *TripCreator) CreateTrip(ctx context.Context, req domain.TripRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if req.Origin == "" || req.Destination == "" {
		return 0, fmt.Errorf("create trip: origin and destination are required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.next
	t.next++
	t.trips[id] = req
	return id, nil
}

func (t *TripCreator) Trip(id int) (domain.TripRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.trips[id]
	return req, ok
}
