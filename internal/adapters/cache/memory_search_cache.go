package cache

import (
	"context"
	"errors"
	"fmt"
	"trek-planner/internal/domain"

	"github.com/bluele/gcache"
)

// MemorySearchCache is a bounded in-process LRU of search results.
type MemorySearchCache struct {
	lru gcache.Cache
}

func NewMemorySearchCache(size int) *MemorySearchCache {
	return &MemorySearchCache{lru: gcache.New(size).LRU().Build()}
}

func (m *MemorySearchCache) Get(_ context.Context, query string) ([]domain.Location, bool, error) {
	v, err := m.lru.Get(query)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("memory search cache: %w", err)
	}

	locs, ok := v.([]domain.Location)
	if !ok {
		return nil, false, fmt.Errorf("memory search cache: unexpected value %T", v)
	}
	return locs, true, nil
}

func (m *MemorySearchCache) Put(_ context.Context, query string, locations []domain.Location) error {
	cp := make([]domain.Location, len(locations))
	copy(cp, locations)
	return m.lru.Set(query, cp)
}
