package planner

import "trek-planner/internal/domain"

// Notifier receives every user-visible outcome of a session. Calls are made
// from the session loop and must not block.
type Notifier interface {
	CandidatesChanged(slotID string, candidates []domain.Location)
	NoResults(slotID string)
	SelectionChanged(slotID string, loc domain.Location)
	// RouteChanged reports a newly drawn route.
	RouteChanged(route *domain.Route)
	// RouteFailed reports that the route was cleared, with the message to show.
	RouteFailed(message string)
	TripReadinessChanged(ready bool)
	TripCreated(id int, redirect string)
	TripFailed(message string)
}

type nopNotifier struct{}

func (nopNotifier) CandidatesChanged(string, []domain.Location) {}
func (nopNotifier) NoResults(string) {}
func (nopNotifier) SelectionChanged(string, domain.Location) {}
func (nopNotifier) RouteChanged(*domain.Route) {}
func (nopNotifier) RouteFailed(string) {}
func (nopNotifier) TripReadinessChanged(bool) {}
func (nopNotifier) TripCreated(int, string) {}
func (nopNotifier) TripFailed(string) {}
