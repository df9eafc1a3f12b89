package domain

import (
	"net/url"
	"strconv"

	"github.com/paulmach/orb"
)

// Represents a routing request for an ordered chain of waypoints.
// SkipSegments holds 1-based segment positions the router must not
// compute a path for; segment n connects waypoint n to waypoint n+1.
type RouteRequest struct {
	Start        Coordinates
	Stop         Coordinates
	Via          []Coordinates
	SkipSegments []int
}

// Values encodes the request as query parameters in waypoint order.
func (r RouteRequest) Values() url.Values {
	v := url.Values{}
	v.Set("start", r.Start.Query())
	v.Set("stop", r.Stop.Query())
	for _, c := range r.Via {
		v.Add("via", c.Query())
	}
	for _, s := range r.SkipSegments {
		v.Add("skip_segments", strconv.Itoa(s))
	}
	return v
}

// CacheKey is a canonical identity for the request. Two requests with the
// same waypoints and skip segments share a key.
func (r RouteRequest) CacheKey() string {
	return "route:" + r.Values().Encode()
}

// Represents the resolved path for a RouteRequest.
// It is immutable planning data and contains no map state.
type Route struct {
	Geometry orb.LineString
	Distance float64
	BBox     orb.Bound
}

// Waypoints returns the route geometry as ordered [lon, lat] pairs.
func (r *Route) Waypoints() [][2]float64 {
	out := make([][2]float64, 0, len(r.Geometry))
	for _, p := range r.Geometry {
		out = append(out, [2]float64{p.Lon(), p.Lat()})
	}
	return out
}
