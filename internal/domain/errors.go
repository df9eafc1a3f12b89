package domain

import "fmt"

// RouteError is returned when the routing service completes a request
// but reports that no route could be produced. Message is the literal
// text provided by the service and is shown to the user unchanged.
type RouteError struct {
	Code    string
	Message string
}

func (e *RouteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("route error %s: %s", e.Code, e.Message)
	}
	return "route error: " + e.Message
}
