package event

import "errors"

var (
	// ErrNotCancelable is returned when SetCanceled is called on an event that was not created cancelable.
	ErrNotCancelable = errors.New("event is not cancelable")

	// ErrPhaseOrder is returned when an event phase is moved backwards or set twice.
	ErrPhaseOrder = errors.New("event phase must strictly increase")

	// ErrInvalidPriority is returned when a priority value or name is outside the known tiers.
	ErrInvalidPriority = errors.New("invalid priority")
)
