package dto

import (
	"trek-planner/internal/domain"
	"trek-planner/internal/planner"
)

type SearchRequest struct {
	Slot  string `json:"slot"`
	Query string `json:"query"`
}

type SelectRequest struct {
	Slot  string `json:"slot"`
	Index *int   `json:"index"`
}

type PickRequest struct {
	Target string   `json:"target"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
}

type SkipRequest struct {
	Slot string `json:"slot"`
	Skip *bool  `json:"skip"`
}

type SlotIDResponse struct {
	Slot string `json:"slot"`
}

type SlotResponse struct {
	ID         string            `json:"id"`
	Role       string            `json:"role"`
	Order      *int              `json:"order,omitempty"`
	Candidates []domain.Location `json:"candidates"`
	Searched   bool              `json:"searched"`
	Selected   *domain.Location  `json:"selected"`
	Skip       bool              `json:"skip"`
	HasMarker  bool              `json:"has_marker"`
}

type RouteResponse struct {
	Distance  float64      `json:"distance"`
	Waypoints [][2]float64 `json:"waypoints"`
	BBox      [4]float64   `json:"bbox"`
}

type SessionResponse struct {
	ID            string         `json:"id"`
	State         string         `json:"state"`
	Slots         []SlotResponse `json:"slots"`
	Route         *RouteResponse `json:"route"`
	CanCreateTrip bool           `json:"can_create_trip"`
	TripID        *int           `json:"trip_id,omitempty"`
	Redirect      string         `json:"redirect,omitempty"`
}

func FromSnapshot(snap planner.Snapshot) SessionResponse {
	res := SessionResponse{
		ID:            snap.ID,
		State:         snap.State.String(),
		Slots:         make([]SlotResponse, 0, len(snap.Slots)),
		CanCreateTrip: snap.CanCreateTrip,
	}

	for _, s := range snap.Slots {
		slot := SlotResponse{
			ID:         s.ID,
			Role:       s.Role.String(),
			Candidates: s.Candidates,
			Searched:   s.Searched,
			Selected:   s.Selected,
			Skip:       s.Skip,
			HasMarker:  s.HasMarker,
		}
		if s.Role == planner.RoleVia {
			order := s.Order
			slot.Order = &order
		}
		if slot.Candidates == nil {
			slot.Candidates = []domain.Location{}
		}
		res.Slots = append(res.Slots, slot)
	}

	if r := snap.Route; r != nil {
		res.Route = &RouteResponse{
			Distance:  r.Distance,
			Waypoints: r.Waypoints(),
			BBox:      [4]float64{r.BBox.Min.Lon(), r.BBox.Min.Lat(), r.BBox.Max.Lon(), r.BBox.Max.Lat()},
		}
	}

	if snap.State == planner.StateSubmitted {
		id := snap.TripID
		res.TripID = &id
		res.Redirect = planner.TripURL(id)
	}

	return res
}
