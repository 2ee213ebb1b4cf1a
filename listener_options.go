package eventbus

import (
	"reflect"

	"github.com/dmitrymomot/eventbus/core/event"
)

// ListenerOption configures a single listener registration.
type ListenerOption func(*listenerConfig)

type listenerConfig struct {
	priority        event.Priority
	receiveCanceled bool
	filters         []func(event.Event) bool
	owner           any
	name            string
}

func newListenerConfig(opts []ListenerOption) listenerConfig {
	cfg := listenerConfig{priority: event.Normal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// accept composes the cancellation filter with every custom filter. All must pass.
func (c listenerConfig) accept() func(event.Event) bool {
	receiveCanceled := c.receiveCanceled
	filters := c.filters

	return func(evt event.Event) bool {
		if !receiveCanceled && evt.Cancelable() && evt.Canceled() {
			return false
		}
		for _, f := range filters {
			if !f(evt) {
				return false
			}
		}
		return true
	}
}

// WithPriority sets the dispatch tier. Default is event.Normal.
func WithPriority(p event.Priority) ListenerOption {
	return func(c *listenerConfig) {
		c.priority = p
	}
}

// ReceiveCanceled makes the listener run even after an earlier listener canceled the event.
func ReceiveCanceled() ListenerOption {
	return func(c *listenerConfig) {
		c.receiveCanceled = true
	}
}

// WithFilter adds a predicate the event must satisfy. Filters combine with AND.
func WithFilter(fn func(event.Event) bool) ListenerOption {
	return func(c *listenerConfig) {
		if fn != nil {
			c.filters = append(c.filters, fn)
		}
	}
}

// WithGenericType only admits generic events whose GenericType is t.
//
// Example:
//
//	bus.AddListener(RegistryEvent, onBlocks, eventbus.WithGenericType(reflect.TypeFor[Block]()))
func WithGenericType(t reflect.Type) ListenerOption {
	return WithFilter(func(evt event.Event) bool {
		g, ok := evt.(event.GenericEvent)
		return ok && g.GenericType() == t
	})
}

// WithOwner records the listener under owner so that Unregister(owner) removes it.
// Without it the returned *Handle is the owner.
func WithOwner(owner any) ListenerOption {
	return func(c *listenerConfig) {
		c.owner = owner
	}
}

// WithName sets the listener description used in failure reports.
// Defaults to the callback's function name.
func WithName(name string) ListenerOption {
	return func(c *listenerConfig) {
		if name != "" {
			c.name = name
		}
	}
}
