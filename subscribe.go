package eventbus

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/eventbus/core/event"
)

// Subscribe adds a typed listener. The cast from event.Event to T happens here, once;
// an event of another Go type fails with ErrEventTypeMismatch.
// T is usually the concrete event pointer, or an interface when listening on an ancestor type.
//
// Example:
//
//	h, err := eventbus.Subscribe(bus, PlayerJoin, func(evt *PlayerJoinEvent) error {
//	    log.Info("joined", "name", evt.Name)
//	    return nil
//	}, eventbus.WithPriority(event.High))
func Subscribe[T event.Event](a Adder, t *event.Type, fn func(T) error, opts ...ListenerOption) (*Handle, error) {
	if fn == nil {
		return nil, ErrNilListener
	}

	opts = append([]ListenerOption{WithName(funcName(fn))}, opts...)

	return a.AddListener(t, func(evt event.Event) error {
		typed, ok := evt.(T)
		if !ok {
			return fmt.Errorf("%w: %s posted as %T, listener expects %s",
				ErrEventTypeMismatch, evt.Type(), evt, reflect.TypeFor[T]())
		}
		return fn(typed)
	}, opts...)
}

// SubscribeGeneric adds a typed listener that only fires for generic events parameterized by F.
func SubscribeGeneric[T event.GenericEvent, F any](a Adder, t *event.Type, fn func(T) error, opts ...ListenerOption) (*Handle, error) {
	return Subscribe(a, t, fn, append(opts, WithGenericType(reflect.TypeFor[F]()))...)
}
