package live

import (
	"sync/atomic"
	"trek-planner/internal/domain"
	"trek-planner/internal/planner"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Surface draws a session onto the browsers attached to a hub and relays
// its notices. It implements planner.Map and planner.Notifier.
type Surface struct {
	hub  *Hub
	next atomic.Int64
}

func NewSurface(hub *Hub) *Surface {
	return &Surface{hub: hub}
}

func (s *Surface) AddMarker(p orb.Point) planner.Handle {
	h := s.next.Add(1)

	b := s.hub.board
	b.mu.Lock()
	b.markers[h] = p
	b.mu.Unlock()

	s.hub.Publish("marker_added", markerData{Handle: h, Point: p})
	return planner.Handle(h)
}

func (s *Surface) RemoveMarker(h planner.Handle) {
	b := s.hub.board
	b.mu.Lock()
	delete(b.markers, int64(h))
	b.mu.Unlock()

	s.hub.Publish("marker_removed", map[string]int64{"handle": int64(h)})
}

func (s *Surface) FitBounds(bound orb.Bound) {
	bounds := boundsOf(bound)

	b := s.hub.board
	b.mu.Lock()
	b.bounds = bounds
	b.mu.Unlock()

	s.hub.Publish("bounds", bounds)
}

func (s *Surface) AddRoute(line orb.LineString) planner.Handle {
	h := s.next.Add(1)
	rd := &routeData{Handle: h, Geometry: geojson.NewGeometry(line)}

	b := s.hub.board
	b.mu.Lock()
	b.route = rd
	b.mu.Unlock()

	s.hub.Publish("route_added", rd)
	return planner.Handle(h)
}

func (s *Surface) RemoveRoute(h planner.Handle) {
	b := s.hub.board
	b.mu.Lock()
	if b.route != nil && b.route.Handle == int64(h) {
		b.route = nil
	}
	b.mu.Unlock()

	s.hub.Publish("route_removed", map[string]int64{"handle": int64(h)})
}

func (s *Surface) CandidatesChanged(slotID string, candidates []domain.Location) {
	s.hub.Publish("candidates", map[string]any{"slot": slotID, "locations": candidates})
}

func (s *Surface) NoResults(slotID string) {
	s.hub.Publish("no_results", map[string]string{"slot": slotID})
}

func (s *Surface) SelectionChanged(slotID string, loc domain.Location) {
	s.hub.Publish("selection", map[string]any{"slot": slotID, "location": loc})
}

func (s *Surface) RouteChanged(route *domain.Route) {
	s.hub.Publish("route", map[string]any{
		"distance":  route.Distance,
		"waypoints": route.Waypoints(),
	})
}

func (s *Surface) RouteFailed(message string) {
	s.hub.Publish("route_failed", map[string]string{"message": message})
}

func (s *Surface) TripReadinessChanged(ready bool) {
	s.hub.Publish("trip_ready", map[string]bool{"ready": ready})
}

func (s *Surface) TripCreated(id int, redirect string) {
	s.hub.Publish("trip_created", map[string]any{"id": id, "redirect": redirect})
}

func (s *Surface) TripFailed(message string) {
	s.hub.Publish("trip_failed", map[string]string{"message": message})
}
