package trek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

type routePayload struct {
	BBox     []float64       `json:"bbox"`
	Distance float64         `json:"distance"`
	Points   json.RawMessage `json:"points"`
	Polyline string          `json:"polyline"`
}

type routeResponse struct {
	Success bool            `json:"success"`
	Route   *routePayload   `json:"route"`
	Detail  json.RawMessage `json:"detail"`

	// Server exception models are returned at the top level.
	ErrorCode   string `json:"error_code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

type routeDetail struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// ComputeRoute requests a route through start, the vias and stop, skipping
// the requested segments. A completed request that reports failure yields
// a *domain.RouteError carrying the service message.
func (c *Client) ComputeRoute(ctx context.Context, req domain.RouteRequest) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "trek.ComputeRoute")(&err)

	key := req.CacheKey()
	if c.routeCache != nil {
		route, ok, err := c.routeCache.Get(ctx, key)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok {
			return route, nil
		}
	}

	endpoint := c.baseURL + "/search/route"
	query := req.Values().Encode()

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		r, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		r.URL.RawQuery = query
		return r, nil
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code >= 400 && he.Code < 500 {
			if routeErr := parseRouteFailure([]byte(he.Body)); routeErr != nil {
				return nil, routeErr
			}
		}
		return nil, fmt.Errorf("compute route: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("compute route: decode response: %w", err)
	}

	if !decoded.Success || decoded.Route == nil {
		return nil, decoded.failure()
	}

	route, err := decoded.Route.toDomain()
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	if c.routeCache != nil {
		if err := c.routeCache.Put(ctx, key, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}

func parseRouteFailure(body []byte) *domain.RouteError {
	var decoded routeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	routeErr := decoded.failure()
	if routeErr.Message == "" {
		return nil
	}
	return routeErr
}

// failure extracts the user facing message from any of the failure shapes
// the backend produces.
func (r routeResponse) failure() *domain.RouteError {
	out := &domain.RouteError{Code: r.ErrorCode}

	if len(r.Detail) > 0 {
		var text string
		if err := json.Unmarshal(r.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
			out.Message = text
			return out
		}

		var d routeDetail
		if err := json.Unmarshal(r.Detail, &d); err == nil {
			switch {
			case d.Error != nil && d.Error.Message != "":
				out.Message = d.Error.Message
				out.Code = codeString(d.Error.Code)
				return out
			case d.Description != "":
				out.Message = d.Description
				return out
			case d.Message != "":
				out.Message = d.Message
				return out
			}
		}
	}

	switch {
	case r.Description != "":
		out.Message = r.Description
	case r.Message != "":
		out.Message = r.Message
	default:
		out.Message = "no route found"
	}
	return out
}

func codeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (p *routePayload) toDomain() (*domain.Route, error) {
	var line orb.LineString

	switch {
	case len(p.Points) > 0 && string(p.Points) != "null":
		g, err := geojson.UnmarshalGeometry(p.Points)
		if err != nil {
			return nil, fmt.Errorf("decode route geometry: %w", err)
		}
		ls, ok := g.Geometry().(orb.LineString)
		if !ok {
			return nil, fmt.Errorf("route geometry is %s, want LineString", g.Type)
		}
		line = ls
	case p.Polyline != "":
		coords, _, err := polyline.DecodeCoords([]byte(p.Polyline))
		if err != nil {
			return nil, fmt.Errorf("decode route polyline: %w", err)
		}
		line = make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			// Encoded polylines carry [lat, lon].
			line = append(line, orb.Point{c[1], c[0]})
		}
	default:
		return nil, errors.New("route has no geometry")
	}

	return &domain.Route{
		Geometry: line,
		Distance: p.Distance,
		BBox:     bound(p.BBox, line),
	}, nil
}

// bound reads the 2D or 3D bbox sent by the router, falling back to the
// bound of the geometry.
func bound(bbox []float64, line orb.LineString) orb.Bound {
	switch len(bbox) {
	case 4:
		return orb.Bound{Min: orb.Point{bbox[0], bbox[1]}, Max: orb.Point{bbox[2], bbox[3]}}
	case 6:
		return orb.Bound{Min: orb.Point{bbox[0], bbox[1]}, Max: orb.Point{bbox[3], bbox[4]}}
	}
	return line.Bound()
}
