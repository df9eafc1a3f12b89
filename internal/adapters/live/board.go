package live

import (
	"slices"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type markerData struct {
	Handle int64      `json:"handle"`
	Point  [2]float64 `json:"point"`
}

type routeData struct {
	Handle   int64             `json:"handle"`
	Geometry *geojson.Geometry `json:"geometry"`
}

type boardData struct {
	Markers []markerData `json:"markers"`
	Route   *routeData   `json:"route,omitempty"`
	Bounds  *[4]float64  `json:"bounds,omitempty"`
}

// board mirrors what a browser should be drawing, so that late
// connections can be brought up to date.
type board struct {
	mu      sync.Mutex
	markers map[int64]orb.Point
	route   *routeData
	bounds  *[4]float64
}

func newBoard() *board {
	return &board{markers: make(map[int64]orb.Point)}
}

func (b *board) snapshot() boardData {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := boardData{Markers: make([]markerData, 0, len(b.markers)), Route: b.route, Bounds: b.bounds}
	for h, p := range b.markers {
		out.Markers = append(out.Markers, markerData{Handle: h, Point: p})
	}
	slices.SortFunc(out.Markers, func(a, c markerData) int { return int(a.Handle - c.Handle) })
	return out
}

func boundsOf(bound orb.Bound) *[4]float64 {
	return &[4]float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
}
