package handlers

import (
	"net/http"
	"strings"
	"trek-planner/internal/adapters/live"
	"trek-planner/internal/api/dto"
	"trek-planner/internal/planner"
)

type SessionHandler struct {
	Registry *planner.Registry
	Broker   *live.Broker
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*planner.Session, bool) {
	s, err := h.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter, r *http.Request, s *planner.Session, status int) {
	snap, err := s.Snapshot(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, status, dto.FromSnapshot(snap))
}

// Create starts a new planning session with empty start and stop slots.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	s, err := h.Registry.Create()
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, s, http.StatusCreated)
}

// Session reads (GET) or discards (DELETE) a session.
func (h *SessionHandler) Session(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s, ok := h.session(w, r)
		if !ok {
			return
		}
		h.writeSnapshot(w, r, s, http.StatusOK)

	case http.MethodDelete:
		id := r.PathValue("id")
		if err := h.Registry.Remove(id); err != nil {
			writeSessionError(w, r, err)
			return
		}
		if h.Broker != nil {
			h.Broker.Remove(id)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodDelete}, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SessionHandler) AddVia(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := s.AddVia(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.SlotIDResponse{Slot: id})
}

// Search queues a debounced location search. Results arrive on the live feed
// and in later snapshots.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Slot) == "" {
		writeError(w, r, http.StatusBadRequest, "slot is required")
		return
	}

	if err := s.Search(r.Context(), req.Slot, req.Query); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SelectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Slot) == "" || req.Index == nil {
		writeError(w, r, http.StatusBadRequest, "slot and index are required")
		return
	}

	if err := s.Select(r.Context(), req.Slot, *req.Index); err != nil {
		writeSessionError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, s, http.StatusOK)
}

// Pick assigns a clicked map point to start, stop, an existing via, or a
// new via when target is "via".
func (h *SessionHandler) Pick(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.PickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Target) == "" || req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "target, lat and lon are required")
		return
	}

	id, err := s.Pick(r.Context(), req.Target, *req.Lat, *req.Lon)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SlotIDResponse{Slot: id})
}

func (h *SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SkipRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Slot) == "" || req.Skip == nil {
		writeError(w, r, http.StatusBadRequest, "slot and skip are required")
		return
	}

	if err := s.ToggleSkip(r.Context(), req.Slot, *req.Skip); err != nil {
		writeSessionError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, s, http.StatusOK)
}

// Trip submits the trip. The outcome is reported on the live feed; the
// session snapshot carries the trip ID once it is created.
func (h *SessionHandler) Trip(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.CreateTrip(r.Context()); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "submitting"})
}

// Live streams map and notice updates over a websocket.
func (h *SessionHandler) Live(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := h.session(w, r); !ok {
		return
	}

	if h.Broker == nil {
		writeError(w, r, http.StatusNotFound, "live updates are disabled")
		return
	}
	hub, ok := h.Broker.Hub(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "no live feed for session")
		return
	}
	hub.ServeWS(w, r)
}
