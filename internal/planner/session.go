// Package planner holds the route-planning state machine: the ordered
// waypoint slots of a session, their searches, map sync and routing.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"
	"trek-planner/internal/ports"

	"github.com/google/uuid"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultMinQuery = 3
)

type State int

const (
	StateEmpty State = iota
	StatePartiallySelected
	StateReady
	StateRouted
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartiallySelected:
		return "partially_selected"
	case StateReady:
		return "ready"
	case StateRouted:
		return "routed"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

type Deps struct {
	Searcher ports.LocationSearcher
	Router   ports.RouteComputer
	Trips    ports.TripCreator
	Map      Map
	Notifier Notifier
}

type Options struct {
	Debounce time.Duration
	MinQuery int
}

type routeResult struct {
	route   *domain.Route
	overlay Handle
}

// Session is one user's route being built. All state is owned by the
// session loop; exported methods hop onto it and are safe for concurrent use.
type Session struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	loop   *loop

	searcher ports.LocationSearcher
	router   ports.RouteComputer
	trips    ports.TripCreator
	notifier Notifier
	maps     *mapSync
	opts     Options

	start *Slot
	stop  *Slot
	vias  []*Slot

	// result is the drawn route for the current chain; nil while a
	// recomputation is pending. lastRoute outlives it for submission.
	result    *routeResult
	lastRoute *domain.Route
	routeSeq  uint64
	ready    bool

	submitting bool
	submitted  bool
	tripID     int

	staleRoutes   int
	staleSearches int
}

// NewSession starts a session loop that lives until ctx ends or Close is called.
func NewSession(ctx context.Context, id string, deps Deps, opts Options) (*Session, error) {
	if deps.Searcher == nil || deps.Router == nil || deps.Trips == nil {
		return nil, errors.New("new session: searcher, router and trip creator are required")
	}
	if deps.Map == nil {
		deps.Map = nopMap{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQuery <= 0 {
		opts.MinQuery = DefaultMinQuery
	}
	if id == "" {
		id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(obs.WithSession(ctx, id))
	s := &Session{
		ID:       id,
		ctx:      ctx,
		cancel:   cancel,
		loop:     newLoop(),
		searcher: deps.Searcher,
		router:   deps.Router,
		trips:    deps.Trips,
		notifier: deps.Notifier,
		maps:     newMapSync(deps.Map),
		opts:     opts,
		start:    newSlot(StartSlotID, RoleStart, -1),
		stop:     newSlot(StopSlotID, RoleStop, -1),
	}
	s.start.search = newAutocomplete(s, s.start)
	s.stop.search = newAutocomplete(s, s.stop)

	go s.loop.run(ctx)
	return s, nil
}

func (s *Session) Close() {
	s.cancel()
	s.loop.stop()
}

func (s *Session) do(ctx context.Context, fn func() error) error {
	var err error
	if cerr := s.loop.call(ctx, func() { err = fn() }); cerr != nil {
		return cerr
	}
	return err
}

// Search queues a debounced location search for the slot.
func (s *Session) Search(ctx context.Context, slotID, text string) error {
	return s.do(ctx, func() error {
		slot, err := s.mutableSlot(slotID)
		if err != nil {
			return err
		}
		slot.search.query(text)
		return nil
	})
}

// Select picks a candidate of the slot's last search by index.
func (s *Session) Select(ctx context.Context, slotID string, index int) error {
	return s.do(ctx, func() error {
		slot, err := s.mutableSlot(slotID)
		if err != nil {
			return err
		}
		loc, err := slot.candidate(index)
		if err != nil {
			return err
		}
		return s.selectLocation(slot, loc)
	})
}

func (s *Session) SelectLocation(ctx context.Context, slotID string, loc domain.Location) error {
	return s.do(ctx, func() error {
		slot, err := s.mutableSlot(slotID)
		if err != nil {
			return err
		}
		return s.selectLocation(slot, loc)
	})
}

// Pick assigns a map point to target: "start", "stop", an existing slot ID,
// or "via" for a new via appended after the others. It returns the slot ID.
func (s *Session) Pick(ctx context.Context, target string, lat, lon float64) (string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", ErrInvalidPoint
	}
	loc := domain.PointLocation(lat, lon)

	var slotID string
	err := s.do(ctx, func() error {
		if s.submitted {
			return ErrSubmitted
		}

		var slot *Slot
		if target == RoleVia.String() {
			slot = s.addVia()
		} else {
			var err error
			if slot, err = s.slot(target); err != nil {
				return err
			}
		}
		slotID = slot.ID
		return s.selectLocation(slot, loc)
	})
	return slotID, err
}

func (s *Session) ToggleSkip(ctx context.Context, slotID string, skip bool) error {
	return s.do(ctx, func() error {
		slot, err := s.mutableSlot(slotID)
		if err != nil {
			return err
		}
		return s.toggleSkip(slot, skip)
	})
}

// AddVia appends an unselected via and returns its slot ID.
func (s *Session) AddVia(ctx context.Context) (string, error) {
	var id string
	err := s.do(ctx, func() error {
		if s.submitted {
			return ErrSubmitted
		}
		id = s.addVia().ID
		return nil
	})
	return id, err
}

func (s *Session) CanCreateTrip(ctx context.Context) (bool, error) {
	var ok bool
	err := s.do(ctx, func() error {
		ok = s.canCreateTrip()
		return nil
	})
	return ok, err
}

// CreateTrip submits the trip in the background. The outcome is reported
// through TripCreated or TripFailed; preconditions fail immediately.
func (s *Session) CreateTrip(ctx context.Context) error {
	return s.do(ctx, s.createTrip)
}

func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

// Loop side. Everything below runs on the session loop.

func (s *Session) slots() []*Slot {
	out := make([]*Slot, 0, len(s.vias)+2)
	out = append(out, s.start)
	out = append(out, s.vias...)
	return append(out, s.stop)
}

func (s *Session) slot(id string) (*Slot, error) {
	switch id {
	case StartSlotID:
		return s.start, nil
	case StopSlotID:
		return s.stop, nil
	}
	for _, v := range s.vias {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
}

func (s *Session) mutableSlot(id string) (*Slot, error) {
	if s.submitted {
		return nil, ErrSubmitted
	}
	return s.slot(id)
}

func (s *Session) addVia() *Slot {
	v := newSlot(uuid.NewString(), RoleVia, len(s.vias))
	v.search = newAutocomplete(s, v)
	s.vias = append(s.vias, v)
	return v
}

func (s *Session) selectLocation(slot *Slot, loc domain.Location) error {
	if s.submitted {
		return ErrSubmitted
	}

	slot.selected = &loc
	s.maps.syncMarker(slot)
	s.maps.fitToActive(s.slots())
	s.notifier.SelectionChanged(slot.ID, loc)

	s.updateReadiness()
	s.recompute()
	return nil
}

func (s *Session) toggleSkip(slot *Slot, skip bool) error {
	if slot.Role == RoleStop {
		return ErrStopSkip
	}
	slot.skip = skip
	s.recompute()
	return nil
}

func (s *Session) canCreateTrip() bool {
	return s.start.selected != nil && s.stop.selected != nil
}

func (s *Session) updateReadiness() {
	if ready := s.canCreateTrip(); ready != s.ready {
		s.ready = ready
		s.notifier.TripReadinessChanged(ready)
	}
}

// routeRequest builds the request from the slots as they are now.
// Unselected vias are left out. Segment n joins waypoint n and n+1, so a
// skip flag on the k-th routed waypoint skips segment k.
func (s *Session) routeRequest() domain.RouteRequest {
	req := domain.RouteRequest{
		Start: s.start.selected.Coordinates(),
		Stop:  s.stop.selected.Coordinates(),
		Via:   []domain.Coordinates{},
	}

	routed := []*Slot{s.start}
	for _, v := range s.vias {
		if v.selected == nil {
			continue
		}
		req.Via = append(req.Via, v.selected.Coordinates())
		routed = append(routed, v)
	}

	req.SkipSegments = []int{}
	for i, slot := range routed {
		if slot.skip {
			req.SkipSegments = append(req.SkipSegments, i+1)
		}
	}
	return req
}

func (s *Session) recompute() {
	if !s.canCreateTrip() || s.submitted {
		return
	}

	req := s.routeRequest()
	s.routeSeq++
	seq := s.routeSeq

	s.result = nil
	s.maps.clearRoute()

	ctx := s.ctx
	go func() {
		route, err := s.router.ComputeRoute(ctx, req)
		s.loop.post(func() { s.routeComplete(seq, route, err) })
	}()
}

func (s *Session) routeComplete(seq uint64, route *domain.Route, err error) {
	if seq != s.routeSeq {
		s.staleRoutes++
		logf(s.ctx, "op=route.discard seq=%d current=%d", seq, s.routeSeq)
		return
	}
	if s.submitted || !s.canCreateTrip() {
		return
	}

	if err != nil {
		logf(s.ctx, "route failed: %v", err)
		s.result = nil
		s.lastRoute = nil
		s.maps.clearRoute()
		s.notifier.RouteFailed(routeFailureMessage(err))
		return
	}

	s.result = &routeResult{route: route, overlay: s.maps.drawRoute(route)}
	s.lastRoute = route
	s.notifier.RouteChanged(route)
}

func routeFailureMessage(err error) string {
	var routeErr *domain.RouteError
	if errors.As(err, &routeErr) {
		return routeErr.Message
	}
	return "route request failed: " + err.Error()
}

func (s *Session) createTrip() error {
	err := s.tripPrecondition()
	if err != nil {
		s.notifier.TripFailed(err.Error())
		return err
	}

	req := domain.TripRequest{
		Origin:      s.start.selected.Name,
		Destination: s.stop.selected.Name,
		Waypoints:   s.lastRoute.Waypoints(),
	}
	s.submitting = true

	ctx := s.ctx
	go func() {
		id, err := s.trips.CreateTrip(ctx, req)
		s.loop.post(func() { s.tripComplete(id, err) })
	}()
	return nil
}

func (s *Session) tripPrecondition() error {
	switch {
	case s.submitted:
		return ErrSubmitted
	case s.submitting:
		return ErrSubmitting
	case !s.canCreateTrip():
		return ErrNotReady
	case s.lastRoute == nil:
		return ErrNoRoute
	}
	return nil
}

func (s *Session) tripComplete(id int, err error) {
	s.submitting = false
	if err != nil {
		logf(s.ctx, "trip creation failed: %v", err)
		s.notifier.TripFailed("trip creation failed: " + err.Error())
		return
	}

	s.submitted = true
	s.tripID = id
	for _, slot := range s.slots() {
		slot.search.stop()
	}
	s.notifier.TripCreated(id, TripURL(id))
}

// TripURL is the page a created trip is shown on.
func TripURL(id int) string {
	return "/trek.html?id=" + strconv.Itoa(id)
}

func (s *Session) state() State {
	switch {
	case s.submitted:
		return StateSubmitted
	case s.canCreateTrip() && s.result != nil:
		return StateRouted
	case s.canCreateTrip():
		return StateReady
	case s.start.selected != nil || s.stop.selected != nil:
		return StatePartiallySelected
	default:
		return StateEmpty
	}
}

func logf(ctx context.Context, format string, args ...any) {
	log.Printf("session=%s "+format, append([]any{obs.SessionID(ctx)}, args...)...)
}
