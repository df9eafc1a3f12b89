package planner

import (
	"iter"
	"trek-planner/internal/domain"
)

type Role int

const (
	RoleStart Role = iota
	RoleVia
	RoleStop
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleVia:
		return "via"
	case RoleStop:
		return "stop"
	default:
		return "unknown"
	}
}

const (
	StartSlotID = "start"
	StopSlotID  = "stop"
)

// Slot is one position of the route: the start, the stop or a via.
type Slot struct {
	ID    string
	Role  Role
	Order int // position among vias; -1 for start and stop

	candidates []domain.Location
	searched   bool
	selected   *domain.Location
	marker     Handle
	skip       bool

	search *autocomplete
}

func newSlot(id string, role Role, order int) *Slot {
	return &Slot{ID: id, Role: role, Order: order}
}

// Candidates yields the results of the last completed search. Each call
// starts a fresh pass over the same results.
func (s *Slot) Candidates() iter.Seq2[int, domain.Location] {
	candidates := s.candidates
	return func(yield func(int, domain.Location) bool) {
		for i, c := range candidates {
			if !yield(i, c) {
				return
			}
		}
	}
}

func (s *Slot) Selected() (domain.Location, bool) {
	if s.selected == nil {
		return domain.Location{}, false
	}
	return *s.selected, true
}

func (s *Slot) Skip() bool { return s.skip }

func (s *Slot) HasMarker() bool { return s.marker != 0 }

func (s *Slot) candidate(index int) (domain.Location, error) {
	if index < 0 || index >= len(s.candidates) {
		return domain.Location{}, ErrCandidateIndex
	}
	return s.candidates[index], nil
}
