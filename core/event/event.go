package event

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is the payload dispatched by a bus.
// Concrete events embed *Base, which implements every method.
type Event interface {
	// Type returns the event type used to look up listeners.
	Type() *Type

	// ID returns the unique identifier assigned at creation.
	ID() string

	Cancelable() bool
	Canceled() bool

	// SetCanceled fails with ErrNotCancelable for events created without the Cancelable option.
	SetCanceled(canceled bool) error

	// Phase returns the last priority phase reached during dispatch.
	Phase() (Priority, bool)

	// SetPhase advances the phase. Phases must strictly increase.
	SetPhase(p Priority) error
}

// GenericEvent is an event parameterized by a second type, e.g. a registry event for a given object kind.
type GenericEvent interface {
	Event
	GenericType() reflect.Type
}

// Base carries the state shared by every event.
//
// Example:
//
//	type PlayerJoin struct {
//	    *event.Base
//	    Name string
//	}
//
//	evt := &PlayerJoin{Base: event.NewBase(PlayerJoinType, event.Cancelable()), Name: "steve"}
type Base struct {
	id         string
	typ        *Type
	createdAt  time.Time
	cancelable bool
	generic    reflect.Type

	canceled atomic.Bool
	phase    atomic.Int32 // -1 until the first phase marker runs
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// Cancelable marks the event as cancelable.
func Cancelable() BaseOption {
	return func(b *Base) {
		b.cancelable = true
	}
}

// NewBase creates the shared event state for type t with a fresh UUID and timestamp.
// A nil t means Root.
func NewBase(t *Type, opts ...BaseOption) *Base {
	if t == nil {
		t = Root
	}
	b := &Base{
		id:        uuid.New().String(),
		typ:       t,
		createdAt: time.Now(),
	}
	b.phase.Store(-1)

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewGenericBase creates a Base that also implements GenericEvent.
func NewGenericBase(t *Type, generic reflect.Type, opts ...BaseOption) *Base {
	b := NewBase(t, opts...)
	b.generic = generic
	return b
}

func (b *Base) Type() *Type          { return b.typ }
func (b *Base) ID() string           { return b.id }
func (b *Base) CreatedAt() time.Time { return b.createdAt }
func (b *Base) Cancelable() bool     { return b.cancelable }
func (b *Base) Canceled() bool       { return b.canceled.Load() }

// GenericType returns the generic parameter, or nil for non-generic events.
func (b *Base) GenericType() reflect.Type { return b.generic }

func (b *Base) SetCanceled(canceled bool) error {
	if !b.cancelable {
		return fmt.Errorf("%w: %s", ErrNotCancelable, b.typ)
	}
	b.canceled.Store(canceled)
	return nil
}

func (b *Base) Phase() (Priority, bool) {
	p := b.phase.Load()
	if p < 0 {
		return Highest, false
	}
	return Priority(p), true
}

func (b *Base) SetPhase(p Priority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}
	for {
		prev := b.phase.Load()
		if prev >= int32(p) {
			return fmt.Errorf("%w: cannot move to %s from %s", ErrPhaseOrder, p, Priority(prev))
		}
		if b.phase.CompareAndSwap(prev, int32(p)) {
			return nil
		}
	}
}
