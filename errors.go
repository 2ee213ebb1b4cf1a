package eventbus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedEventType is returned when a listener is added without an event type.
	ErrUnresolvedEventType = errors.New("listener event type could not be resolved")

	// ErrNilListener is returned when a nil callback is added.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrNilEvent is returned when Post is called with a nil event.
	ErrNilEvent = errors.New("event cannot be nil")

	// ErrNilTarget is returned when Register is called with nil.
	ErrNilTarget = errors.New("registration target cannot be nil")

	// ErrUncomparableOwner is returned when a registration owner cannot be used as a map key.
	ErrUncomparableOwner = errors.New("registration owner must be comparable")

	// ErrEventTypeMismatch is returned by typed listeners when the posted event is not of the expected Go type.
	ErrEventTypeMismatch = errors.New("event does not match listener type")

	// ErrListenerPanic is matched by PanicError.
	ErrListenerPanic = errors.New("listener panicked")

	// ErrRegistrarFailed wraps errors returned by static and instance registrars.
	ErrRegistrarFailed = errors.New("event registrar failed")

	// ErrInvalidConfig is returned when bus configuration values cannot be applied.
	ErrInvalidConfig = errors.New("invalid event bus config")
)

// ListenerError is returned by Post when a listener fails. Dispatch stops at the failing listener.
type ListenerError struct {
	BusID     int
	EventType string
	EventID   string
	Index     int    // position in the dispatch array
	Listener  string // listener description
	Err       error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("bus %d: listener %d (%s) failed on %s: %v", e.BusID, e.Index, e.Listener, e.EventType, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking listener.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panicked: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
