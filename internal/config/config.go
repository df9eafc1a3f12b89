package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// MinSearchDebounce is the shortest debounce accepted for location search.
const MinSearchDebounce = 300 * time.Millisecond

// Config holds the planner host configuration.
// Values come from an optional TOML file and are overridden by the environment.
type Config struct {
	Port string `toml:"port"`

	TrekBaseURL string        `toml:"trek_base_url"`
	TrekToken   string        `toml:"trek_token"`
	HTTPTimeout time.Duration `toml:"http_timeout"`

	SearchDebounce  time.Duration `toml:"search_debounce"`
	SearchMinQuery  int           `toml:"search_min_query"`
	SearchCacheSize int           `toml:"search_cache_size"`

	DatabaseURL   string        `toml:"database_url"`
	CacheDBPath   string        `toml:"cache_db_path"`
	RedisURL      string        `toml:"redis_url"`
	RouteCacheTTL time.Duration `toml:"route_cache_ttl"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// Offline serves searches from SeedPath and computes straight-line
	// routes locally instead of calling the trek service.
	Offline  bool   `toml:"offline"`
	SeedPath string `toml:"seed_path"`
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaults() Config {
	return Config{
		Port:            "8080",
		TrekBaseURL:     "http://localhost:5000",
		HTTPTimeout:     10 * time.Second,
		SearchDebounce:  500 * time.Millisecond,
		SearchMinQuery:  3,
		SearchCacheSize: 1000,
		CacheDBPath:     "data/cache.db",
		RouteCacheTTL:   10 * time.Minute,
		SeedPath:        "data/seeds/locations.json",
	}
}

// Load builds the configuration from the TOML file at path (skipped when it
// does not exist) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config: decode %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = Get("PORT", c.Port)
	c.TrekBaseURL = Get("TREK_BASE_URL", c.TrekBaseURL)
	c.TrekToken = Get("TREK_TOKEN", c.TrekToken)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.CacheDBPath = Get("CACHE_DB_PATH", c.CacheDBPath)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.SeedPath = Get("SEED_PATH", c.SeedPath)

	if v := os.Getenv("OFFLINE"); v != "" {
		offline, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse OFFLINE=%q: %w", v, err)
		}
		c.Offline = offline
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &c.HTTPTimeout},
		{"SEARCH_DEBOUNCE", &c.SearchDebounce},
		{"ROUTE_CACHE_TTL", &c.RouteCacheTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SEARCH_MIN_QUERY", &c.SearchMinQuery},
		{"SEARCH_CACHE_SIZE", &c.SearchCacheSize},
	}
	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", i.key, v, err)
		}
		*i.dst = parsed
	}

	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TrekToken) == "" && !c.Offline {
		return errors.New("TREK_TOKEN is required")
	}
	if strings.TrimSpace(c.TrekBaseURL) == "" {
		return errors.New("TREK_BASE_URL is required")
	}
	if c.SearchDebounce < MinSearchDebounce {
		return fmt.Errorf("search debounce %s is below the %s minimum", c.SearchDebounce, MinSearchDebounce)
	}
	if c.SearchMinQuery < 1 {
		return fmt.Errorf("search min query must be positive, got %d", c.SearchMinQuery)
	}
	if c.SearchCacheSize < 1 {
		return fmt.Errorf("search cache size must be positive, got %d", c.SearchCacheSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
