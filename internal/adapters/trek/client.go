package trek

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"trek-planner/internal/ports"
)

// Client talks to the trek backend: location search, route computation
// and trip creation. Every request carries the bearer token.
//
// Search results and computed routes are read through the optional caches
// before the backend is called. The client is safe for concurrent use.
type Client struct {
	session     *http.Client
	token       string
	baseURL     string
	maxAttempts int
	backoff     time.Duration
	searchCache ports.SearchCache
	routeCache  ports.RouteCache
}

func NewClient(
	baseURL string,
	token string,
	timeout time.Duration,
	searchCache ports.SearchCache,
	routeCache ports.RouteCache,
) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("trek bearer token is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("trek base url is empty")
	}

	client := &Client{
		session:     &http.Client{Timeout: timeout},
		token:       token,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
		searchCache: searchCache,
		routeCache:  routeCache,
	}

	return client, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
