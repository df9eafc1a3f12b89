package planner

import (
	"context"
	"sync"
	"testing"
	"time"
	"trek-planner/internal/adapters/mock"
	"trek-planner/internal/domain"

	"github.com/paulmach/orb"
)

type fakeMap struct {
	mu      sync.Mutex
	next    Handle
	markers map[Handle]orb.Point
	routes  map[Handle]orb.LineString
	fits    []orb.Bound
}

func newFakeMap() *fakeMap {
	return &fakeMap{markers: map[Handle]orb.Point{}, routes: map[Handle]orb.LineString{}}
}

func (m *fakeMap) AddMarker(p orb.Point) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.markers[m.next] = p
	return m.next
}

func (m *fakeMap) RemoveMarker(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, h)
}

func (m *fakeMap) FitBounds(b orb.Bound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fits = append(m.fits, b)
}

func (m *fakeMap) AddRoute(line orb.LineString) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.routes[m.next] = line
	return m.next
}

func (m *fakeMap) RemoveRoute(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.routes, h)
}

func (m *fakeMap) counts() (markers, routes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers), len(m.routes)
}

func (m *fakeMap) lastFit() (orb.Bound, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.fits) == 0 {
		return orb.Bound{}, 0
	}
	return m.fits[len(m.fits)-1], len(m.fits)
}

type recorder struct {
	mu          sync.Mutex
	candidates  map[string][]domain.Location
	noResults   map[string]int
	selections  int
	routes      []*domain.Route
	failures    []string
	readiness   []bool
	tripID      int
	redirect    string
	tripFailure []string
}

func newRecorder() *recorder {
	return &recorder{candidates: map[string][]domain.Location{}, noResults: map[string]int{}}
}

func (r *recorder) CandidatesChanged(slotID string, c []domain.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[slotID] = c
}

func (r *recorder) NoResults(slotID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noResults[slotID]++
}

func (r *recorder) SelectionChanged(string, domain.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections++
}

func (r *recorder) RouteChanged(route *domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) RouteFailed(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

func (r *recorder) TripReadinessChanged(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readiness = append(r.readiness, ready)
}

func (r *recorder) TripCreated(id int, redirect string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tripID, r.redirect = id, redirect
}

func (r *recorder) TripFailed(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tripFailure = append(r.tripFailure, msg)
}

func (r *recorder) noResultCount(slotID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.noResults[slotID]
}

func (r *recorder) routeFailures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

func (r *recorder) tripFailures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tripFailure...)
}

type gatedSearcher struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	results map[string][]domain.Location
	errs    map[string]error
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{
		gates:   map[string]chan struct{}{},
		results: map[string][]domain.Location{},
		errs:    map[string]error{},
	}
}

func (g *gatedSearcher) SearchLocations(ctx context.Context, q string) ([]domain.Location, error) {
	g.mu.Lock()
	g.calls = append(g.calls, q)
	gate, res, err := g.gates[q], g.results[q], g.errs[q]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func (g *gatedSearcher) issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type routerFunc func(ctx context.Context, req domain.RouteRequest) (*domain.Route, error)

func (f routerFunc) ComputeRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	return f(ctx, req)
}

type tripFunc func(ctx context.Context, req domain.TripRequest) (int, error)

func (f tripFunc) CreateTrip(ctx context.Context, req domain.TripRequest) (int, error) {
	return f(ctx, req)
}

type routeReply struct {
	route *domain.Route
	err   error
}

type routeCall struct {
	req   domain.RouteRequest
	reply chan routeReply
}

// gatedRouter hands every request to the test, which answers it explicitly.
func gatedRouter() (routerFunc, chan routeCall) {
	calls := make(chan routeCall, 16)
	return func(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
		c := routeCall{req: req, reply: make(chan routeReply, 1)}
		calls <- c
		select {
		case r := <-c.reply:
			return r.route, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, calls
}

func nextCall(t *testing.T, calls chan routeCall) routeCall {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no route request issued")
		return routeCall{}
	}
}

func noCall(t *testing.T, calls chan routeCall) {
	t.Helper()
	select {
	case c := <-calls:
		t.Fatalf("unexpected route request %+v", c.req)
	case <-time.After(30 * time.Millisecond):
	}
}

func routeWithDistance(req domain.RouteRequest, d float64) *domain.Route {
	line := orb.LineString{req.Start.Point()}
	for _, v := range req.Via {
		line = append(line, v.Point())
	}
	line = append(line, req.Stop.Point())
	return &domain.Route{Geometry: line, Distance: d, BBox: line.Bound()}
}

type harness struct {
	s     *Session
	m     *fakeMap
	n     *recorder
	trips *mock.TripCreator
}

func newHarness(t *testing.T, deps Deps) *harness {
	t.Helper()

	h := &harness{m: newFakeMap(), n: newRecorder(), trips: mock.NewTripCreator()}
	if deps.Searcher == nil {
		deps.Searcher = mock.NewLocationSearcher(nil)
	}
	if deps.Router == nil {
		deps.Router = mock.NewRouteComputer()
	}
	if deps.Trips == nil {
		deps.Trips = h.trips
	}
	deps.Map, deps.Notifier = h.m, h.n

	s, err := NewSession(context.Background(), "test", deps, Options{Debounce: time.Millisecond})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	h.s = s
	return h
}

// inspect runs fn on the session loop.
func (h *harness) inspect(t *testing.T, fn func(s *Session)) {
	t.Helper()
	if err := h.s.do(context.Background(), func() error { fn(h.s); return nil }); err != nil {
		t.Fatalf("inspect: %v", err)
	}
}

func (h *harness) eventually(t *testing.T, what string, cond func(s *Session) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var ok bool
		h.inspect(t, func(s *Session) { ok = cond(s) })
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

var (
	paris = domain.Location{Name: "Paris", Latitude: 48.85, Longitude: 2.35}
	lyon  = domain.Location{Name: "Lyon", Latitude: 45.75, Longitude: 4.85}
	dijon = domain.Location{Name: "Dijon", Latitude: 47.32, Longitude: 5.04}
	berne = domain.Location{Name: "Berne", Latitude: 46.95, Longitude: 7.45}
)
