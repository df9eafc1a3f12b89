package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("TREK_TOKEN", "secret")
	t.Setenv("SEARCH_DEBOUNCE", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.SearchDebounce != 750*time.Millisecond {
		t.Errorf("debounce = %s, want 750ms", cfg.SearchDebounce)
	}
	if cfg.SearchMinQuery != 3 {
		t.Errorf("min query = %d, want 3", cfg.SearchMinQuery)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
port = "9000"
trek_base_url = "https://trek.example"
trek_token = "from-file"
search_min_query = 4
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9100" {
		t.Errorf("port = %q, want env override 9100", cfg.Port)
	}
	if cfg.TrekBaseURL != "https://trek.example" {
		t.Errorf("base url = %q", cfg.TrekBaseURL)
	}
	if cfg.TrekToken != "from-file" {
		t.Errorf("token = %q", cfg.TrekToken)
	}
	if cfg.SearchMinQuery != 4 {
		t.Errorf("min query = %d, want 4", cfg.SearchMinQuery)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"TREK_TOKEN": ""}},
		{"debounce too short", map[string]string{"TREK_TOKEN": "x", "SEARCH_DEBOUNCE": "100ms"}},
		{"bad duration", map[string]string{"TREK_TOKEN": "x", "ROUTE_CACHE_TTL": "soon"}},
		{"bad int", map[string]string{"TREK_TOKEN": "x", "SEARCH_MIN_QUERY": "three"}},
		{"bad bool", map[string]string{"TREK_TOKEN": "x", "OFFLINE": "maybe"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadOfflineWithoutToken(t *testing.T) {
	t.Setenv("TREK_TOKEN", "")
	t.Setenv("OFFLINE", "true")
	t.Setenv("SEED_PATH", "fixtures.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Offline || cfg.SeedPath != "fixtures.json" {
		t.Fatalf("offline = %v seed = %q", cfg.Offline, cfg.SeedPath)
	}
}
