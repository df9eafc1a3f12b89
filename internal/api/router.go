package api

import (
	"net/http"
	"trek-planner/internal/adapters/live"
	"trek-planner/internal/api/handlers"
	"trek-planner/internal/planner"

	"github.com/rs/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(registry *planner.Registry, broker *live.Broker, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	sessions := &handlers.SessionHandler{Registry: registry, Broker: broker}

	mux.HandleFunc("/health", handlers.Health(registry))
	mux.HandleFunc("/sessions", sessions.Create)
	mux.HandleFunc("/sessions/{id}", sessions.Session)
	mux.HandleFunc("/sessions/{id}/vias", sessions.AddVia)
	mux.HandleFunc("/sessions/{id}/search", sessions.Search)
	mux.HandleFunc("/sessions/{id}/select", sessions.Select)
	mux.HandleFunc("/sessions/{id}/pick", sessions.Pick)
	mux.HandleFunc("/sessions/{id}/skip", sessions.Skip)
	mux.HandleFunc("/sessions/{id}/trip", sessions.Trip)
	mux.HandleFunc("/sessions/{id}/live", sessions.Live)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return loggingMiddleware(c.Handler(mux))
}
