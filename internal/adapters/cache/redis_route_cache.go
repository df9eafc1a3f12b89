package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trek-planner/internal/domain"
	"trek-planner/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
)

type cachedRoute struct {
	Distance float64           `json:"distance"`
	BBox     [4]float64        `json:"bbox"`
	Points   *geojson.Geometry `json:"points"`
}

// RedisRouteCache shares computed routes between planner instances.
// Entries expire after TTL.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var cr cachedRoute
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode: %w", err)
	}
	if cr.Points == nil {
		return nil, false, errors.New("get route cache: entry has no geometry")
	}

	line, ok := cr.Points.Geometry().(orb.LineString)
	if !ok {
		return nil, false, fmt.Errorf("get route cache: geometry is %s, want LineString", cr.Points.Type)
	}

	return &domain.Route{
		Geometry: line,
		Distance: cr.Distance,
		BBox: orb.Bound{
			Min: orb.Point{cr.BBox[0], cr.BBox[1]},
			Max: orb.Point{cr.BBox[2], cr.BBox[3]},
		},
	}, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, route *domain.Route) error {
	if route == nil {
		return errors.New("put route cache: route is nil")
	}

	cr := cachedRoute{
		Distance: route.Distance,
		BBox:     [4]float64{route.BBox.Min[0], route.BBox.Min[1], route.BBox.Max[0], route.BBox.Max[1]},
		Points:   geojson.NewGeometry(route.Geometry),
	}
	raw, err := json.Marshal(cr)
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache key=%q: %w", key, err)
	}
	return nil
}
