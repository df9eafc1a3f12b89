package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"trek-planner/internal/adapters/cache"
	"trek-planner/internal/adapters/live"
	"trek-planner/internal/adapters/mock"
	"trek-planner/internal/adapters/trek"
	"trek-planner/internal/api"
	"trek-planner/internal/config"
	"trek-planner/internal/planner"
	"trek-planner/internal/platform/db"
	"trek-planner/internal/ports"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (trek service, caches, websocket hubs) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("PLANNER_CONFIG", "config.toml"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildServices(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	broker := live.NewBroker(ctx)
	registry := planner.NewRegistry(ctx, deps, planner.Options{
		Debounce: cfg.SearchDebounce,
		MinQuery: cfg.SearchMinQuery,
	}, broker.Surface)
	defer registry.Close()

	router := api.NewRouter(registry, broker, cfg.AllowedOrigins)

	log.Printf("Server listening addr=:%s offline=%v", cfg.Port, cfg.Offline)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}
}

// buildServices picks the search, routing and trip backends. The returned
// cleanup closes any connections opened along the way.
func buildServices(ctx context.Context, cfg config.Config) (planner.Deps, func(), error) {
	if cfg.Offline {
		searcher, err := mock.LoadLocationSearcher(cfg.SeedPath)
		if err != nil {
			return planner.Deps{}, nil, fmt.Errorf("build services: %w", err)
		}
		deps := planner.Deps{
			Searcher: searcher,
			Router:   mock.NewRouteComputer(),
			Trips:    mock.NewTripCreator(),
		}
		return deps, func() {}, nil
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	searchCache, closeDB, err := openSearchCache(cfg)
	if err != nil {
		return planner.Deps{}, nil, fmt.Errorf("build services: %w", err)
	}
	closers = append(closers, closeDB)

	// The route cache is optional; a nil port disables it.
	var routeCache ports.RouteCache
	if cfg.RedisURL != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return planner.Deps{}, nil, fmt.Errorf("build services: %w", err)
		}
		closers = append(closers, func() { rdb.Close() })
		routeCache = cache.NewRedisRouteCache(rdb, cfg.RouteCacheTTL)
	}

	client, err := trek.NewClient(cfg.TrekBaseURL, cfg.TrekToken, cfg.HTTPTimeout, searchCache, routeCache)
	if err != nil {
		cleanup()
		return planner.Deps{}, nil, fmt.Errorf("build services: %w", err)
	}

	deps := planner.Deps{Searcher: client, Router: client, Trips: client}
	return deps, cleanup, nil
}

// openSearchCache layers an in-memory LRU over Postgres when DATABASE_URL is
// set, or over a local SQLite file otherwise.
func openSearchCache(cfg config.Config) (ports.SearchCache, func(), error) {
	front := cache.NewMemorySearchCache(cfg.SearchCacheSize)

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		back := cache.NewSQLSearchCache(conn)
		return cache.NewLayeredSearchCache(front, back), func() { conn.Close() }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CacheDBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("open search cache: create dir: %w", err)
	}
	conn, err := db.OpenSQLite(cfg.CacheDBPath)
	if err != nil {
		return nil, nil, err
	}
	// Local runs initialize the SQLite schema on startup; Postgres is set up by dbtool.
	if err := cache.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open search cache: %w", err)
	}
	back := cache.NewSqliteSearchCache(conn)
	return cache.NewLayeredSearchCache(front, back), func() { conn.Close() }, nil
}
