package planner

import (
	"trek-planner/internal/domain"

	"github.com/paulmach/orb"
)

// Handle identifies a marker or route overlay drawn on a map. Zero means none.
type Handle int64

// Map is the drawing surface a session renders onto.
type Map interface {
	AddMarker(p orb.Point) Handle
	RemoveMarker(h Handle)
	FitBounds(b orb.Bound)
	AddRoute(line orb.LineString) Handle
	RemoveRoute(h Handle)
}

// mapSync owns every marker and overlay handle of a session.
type mapSync struct {
	m     Map
	route Handle
}

func newMapSync(m Map) *mapSync {
	return &mapSync{m: m}
}

// syncMarker replaces the slot's marker so it matches its selection.
func (ms *mapSync) syncMarker(s *Slot) {
	if s.marker != 0 {
		ms.m.RemoveMarker(s.marker)
		s.marker = 0
	}
	if s.selected != nil {
		s.marker = ms.m.AddMarker(s.selected.Coordinates().Point())
	}
}

// fitToActive frames all slots that carry a marker.
func (ms *mapSync) fitToActive(slots []*Slot) {
	var active orb.MultiPoint
	for _, s := range slots {
		if s.marker != 0 && s.selected != nil {
			active = append(active, s.selected.Coordinates().Point())
		}
	}
	if len(active) == 0 {
		return
	}
	ms.m.FitBounds(active.Bound())
}

func (ms *mapSync) drawRoute(r *domain.Route) Handle {
	ms.clearRoute()
	ms.route = ms.m.AddRoute(r.Geometry)
	return ms.route
}

func (ms *mapSync) clearRoute() {
	if ms.route == 0 {
		return
	}
	ms.m.RemoveRoute(ms.route)
	ms.route = 0
}
