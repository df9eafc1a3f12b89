package planner

import "errors"

var (
	ErrUnknownSlot    = errors.New("unknown slot")
	ErrCandidateIndex = errors.New("candidate index out of range")
	ErrStopSkip       = errors.New("stop slot cannot be skipped")
	ErrInvalidPoint   = errors.New("point outside valid coordinates")
	ErrNotReady       = errors.New("start and stop must both be selected")
	ErrNoRoute        = errors.New("no route has been computed yet")
	ErrSubmitting     = errors.New("trip submission already in progress")
	ErrSubmitted      = errors.New("trip already submitted")
)
