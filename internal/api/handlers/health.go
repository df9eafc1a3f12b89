package handlers

import (
	"net/http"
	"trek-planner/internal/planner"
)

// Health reports liveness and the number of open planning sessions.
func Health(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		res := map[string]any{"status": "ok", "sessions": registry.Len()}
		writeJSON(w, r, http.StatusOK, res)
	}
}
