package logger

import (
	"log/slog"
	"strconv"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
// Uses index-based keys to preserve error order. Returns empty Attr for all nil errors.
func Errors(errs ...error) slog.Attr {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	if count == 0 {
		return slog.Attr{}
	}

	as := make([]slog.Attr, 0, count)
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Stack records a captured stack trace. Returns empty Attr for an empty trace.
func Stack(stack []byte) slog.Attr {
	if len(stack) == 0 {
		return slog.Attr{}
	}
	return slog.String("stack", string(stack))
}

// ============================================================================
// Event Bus
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// BusID identifies the bus instance.
func BusID(id int) slog.Attr {
	return slog.Int("bus_id", id)
}

// EventID identifies a single posted event.
func EventID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("event_id", id)
}

// EventType names the event type.
func EventType(name string) slog.Attr {
	return slog.String("event_type", name)
}

// Priority names a dispatch tier.
func Priority(name string) slog.Attr {
	return slog.String("priority", name)
}

// ListenerIndex is the position of a listener in a dispatch array.
func ListenerIndex(i int) slog.Attr {
	return slog.Int("listener_index", i)
}

// Listener names a single listener.
func Listener(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("listener", name)
}

// Listeners renders a whole dispatch array. Returns empty Attr for an empty array.
func Listeners(names []string) slog.Attr {
	if len(names) == 0 {
		return slog.Attr{}
	}
	return slog.Any("listeners", names)
}

// Target describes a registration target by its Go type.
func Target(typeName string) slog.Attr {
	return slog.String("target", typeName)
}
