package domain

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func TestRouteRequestValues(t *testing.T) {
	req := RouteRequest{
		Start:        Coordinates{Lat: 48.85, Lon: 2.35},
		Stop:         Coordinates{Lat: 45.75, Lon: 4.85},
		Via:          []Coordinates{{Lat: 47.32, Lon: 5.04}, {Lat: 46, Lon: 4}},
		SkipSegments: []int{1, 3},
	}

	v := req.Values()
	if v.Get("start") != "48.85,2.35" || v.Get("stop") != "45.75,4.85" {
		t.Fatalf("start/stop = %q/%q", v.Get("start"), v.Get("stop"))
	}
	if !reflect.DeepEqual(v["via"], []string{"47.32,5.04", "46,4"}) {
		t.Fatalf("via = %v", v["via"])
	}
	if !reflect.DeepEqual(v["skip_segments"], []string{"1", "3"}) {
		t.Fatalf("skip_segments = %v", v["skip_segments"])
	}
}

func TestRouteRequestCacheKey(t *testing.T) {
	a := RouteRequest{Start: Coordinates{Lat: 1, Lon: 2}, Stop: Coordinates{Lat: 3, Lon: 4}}
	b := a
	b.Via = []Coordinates{}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("nil and empty via differ: %q vs %q", a.CacheKey(), b.CacheKey())
	}

	b.SkipSegments = []int{1}
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("skip segments must change the key")
	}
}

func TestRouteWaypoints(t *testing.T) {
	r := &Route{Geometry: orb.LineString{{2.35, 48.85}, {4.85, 45.75}}}
	want := [][2]float64{{2.35, 48.85}, {4.85, 45.75}}
	if got := r.Waypoints(); !reflect.DeepEqual(got, want) {
		t.Fatalf("waypoints = %v, want %v", got, want)
	}
	if got := (&Route{}).Waypoints(); got == nil || len(got) != 0 {
		t.Fatalf("empty route waypoints = %v", got)
	}
}

func TestPointLocation(t *testing.T) {
	got := PointLocation(59.4, 10.69)
	want := Location{Name: "59.4, 10.69", Latitude: 59.4, Longitude: 10.69}
	if got != want {
		t.Fatalf("location = %+v, want %+v", got, want)
	}
	if got.Coordinates().Point() != (orb.Point{10.69, 59.4}) {
		t.Fatalf("point = %v", got.Coordinates().Point())
	}
}

func TestRouteErrorMessage(t *testing.T) {
	err := &RouteError{Code: "2009", Message: "no route found"}
	if err.Error() != "route error 2009: no route found" {
		t.Fatalf("error = %q", err.Error())
	}
}
