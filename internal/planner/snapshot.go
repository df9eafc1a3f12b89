package planner

import (
	"slices"
	"trek-planner/internal/domain"

	"github.com/paulmach/orb"
)

type SlotView struct {
	ID         string
	Role       Role
	Order      int
	Candidates []domain.Location
	Searched   bool
	Selected   *domain.Location
	Skip       bool
	HasMarker  bool
}

// Snapshot is a copy of session state safe to read off the loop.
type Snapshot struct {
	ID            string
	State         State
	Slots         []SlotView
	Route         *domain.Route
	CanCreateTrip bool
	TripID        int
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:            s.ID,
		State:         s.state(),
		CanCreateTrip: s.canCreateTrip(),
		TripID:        s.tripID,
	}

	for _, slot := range s.slots() {
		v := SlotView{
			ID:         slot.ID,
			Role:       slot.Role,
			Order:      slot.Order,
			Candidates: slices.Clone(slot.candidates),
			Searched:   slot.searched,
			Skip:       slot.skip,
			HasMarker:  slot.HasMarker(),
		}
		if loc, ok := slot.Selected(); ok {
			v.Selected = &loc
		}
		snap.Slots = append(snap.Slots, v)
	}

	if s.result != nil {
		r := *s.result.route
		r.Geometry = slices.Clone(r.Geometry)
		snap.Route = &r
	}
	return snap
}

type nopMap struct{}

func (nopMap) AddMarker(orb.Point) Handle { return 1 }
func (nopMap) RemoveMarker(Handle) {}
func (nopMap) FitBounds(orb.Bound) {}
func (nopMap) AddRoute(orb.LineString) Handle { return 1 }
func (nopMap) RemoveRoute(Handle) {}
