package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/eventbus/core/event"
	"github.com/dmitrymomot/eventbus/core/logger"
)

// ExceptionHandler observes a listener failure during Post.
// listeners is a copy of the full dispatch array and index the position of the failing listener.
type ExceptionHandler func(bus *Bus, evt event.Event, listeners []event.Listener, index int, err error)

// reportFailure is the default ExceptionHandler. It logs the failure context; Post still returns the error.
func (b *Bus) reportFailure(bus *Bus, evt event.Event, listeners []event.Listener, index int, err error) {
	attrs := []slog.Attr{
		logger.Component("eventbus"),
		logger.BusID(bus.ID()),
		logger.EventType(evt.Type().Name()),
		logger.EventID(evt.ID()),
		logger.ListenerIndex(index),
		logger.Listener(describe(listeners[index])),
		logger.Listeners(describeAll(listeners)),
		logger.Error(err),
	}

	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, logger.Stack(pe.Stack))
	}

	b.logger.LogAttrs(context.Background(), slog.LevelError, "exception caught during event dispatch", attrs...)
}

// FailureReport renders a failure as a multi-line text block listing every listener,
// with the failing one marked. Useful in custom exception handlers.
func FailureReport(evt event.Event, listeners []event.Listener, index int, err error) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Exception caught during firing event: %v\n", err)
	fmt.Fprintf(&sb, "\tEvent: %s (%s)\n", evt.Type().Name(), evt.ID())
	fmt.Fprintf(&sb, "\tIndex: %d\n", index)
	sb.WriteString("\tListeners:\n")
	for i, l := range listeners {
		marker := " "
		if i == index {
			marker = ">"
		}
		fmt.Fprintf(&sb, "\t%s%d: %s\n", marker, i, describe(l))
	}

	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		sb.WriteString(string(pe.Stack))
	}

	return sb.String()
}

func describe(l event.Listener) string {
	switch v := l.(type) {
	case event.Priority:
		return "phase " + v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", l)
	}
}

func describeAll(listeners []event.Listener) []string {
	out := make([]string, len(listeners))
	for i, l := range listeners {
		out[i] = describe(l)
	}
	return out
}
