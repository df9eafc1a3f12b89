package trek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"
)

type locationsResponse struct {
	Locations []domain.Location `json:"locations"`
}

// SearchLocations resolves a free text or "lat,lon" query into candidates.
func (c *Client) SearchLocations(ctx context.Context, query string) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "trek.SearchLocations")(&err)

	norm := normalize(query)
	if norm == "" {
		return nil, errors.New("search locations: query must be non-empty")
	}

	if c.searchCache != nil {
		locs, ok, err := c.searchCache.Get(ctx, norm)
		if err != nil {
			log.Printf("search cache read failed: %v", err)
		} else if ok {
			return locs, nil
		}
	}

	endpoint := c.baseURL + "/search/locations"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("query", norm)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search locations %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded locationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search locations: decode response: %w", err)
	}

	locs := decoded.Locations
	if locs == nil {
		locs = []domain.Location{}
	}

	if c.searchCache != nil {
		if err := c.searchCache.Put(ctx, norm, locs); err != nil {
			log.Printf("search cache write failed: %v", err)
		}
	}

	return locs, nil
}
