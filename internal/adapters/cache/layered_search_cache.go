package cache

import (
	"context"
	"log"
	"trek-planner/internal/domain"
	"trek-planner/internal/ports"
)

// LayeredSearchCache reads through an ordered list of caches, fastest
// first. A hit in a slower layer is copied into the faster ones.
type LayeredSearchCache struct {
	layers []ports.SearchCache
}

func NewLayeredSearchCache(layers ...ports.SearchCache) *LayeredSearchCache {
	return &LayeredSearchCache{layers: layers}
}

func (l *LayeredSearchCache) Get(ctx context.Context, query string) ([]domain.Location, bool, error) {
	var firstErr error

	for i, layer := range l.layers {
		locs, ok, err := layer.Get(ctx, query)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !ok {
			continue
		}

		for _, faster := range l.layers[:i] {
			if err := faster.Put(ctx, query, locs); err != nil {
				log.Printf("search cache backfill failed: %v", err)
			}
		}
		return locs, true, nil
	}

	return nil, false, firstErr
}

// Put writes to every layer and returns the first failure.
func (l *LayeredSearchCache) Put(ctx context.Context, query string, locations []domain.Location) error {
	var firstErr error
	for _, layer := range l.layers {
		if err := layer.Put(ctx, query, locations); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
