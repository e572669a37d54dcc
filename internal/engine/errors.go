package engine

import "errors"

var (
	ErrEmptySelection    = errors.New("no scenarios available for this run")
	ErrInvalidTransition = errors.New("action not allowed in current phase")
	ErrUnknownAction     = errors.New("unknown action card")
	ErrUnaffordable      = errors.New("action card exceeds available resources")
	ErrInvalidDecision   = errors.New("invalid decision")
)
