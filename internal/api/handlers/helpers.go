package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"trek-planner/internal/planner"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeSessionError maps planner errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, planner.ErrUnknownSession), errors.Is(err, planner.ErrUnknownSlot):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrCandidateIndex),
		errors.Is(err, planner.ErrStopSkip),
		errors.Is(err, planner.ErrInvalidPoint):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrNotReady),
		errors.Is(err, planner.ErrNoRoute),
		errors.Is(err, planner.ErrSubmitting),
		errors.Is(err, planner.ErrSubmitted):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, planner.ErrClosed):
		writeError(w, r, http.StatusGone, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Printf("session request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
