// Package eventbus provides an in-process, synchronous publish/subscribe dispatcher for
// modular, plugin-heavy applications. Producers post typed events; subscribers register
// callbacks filtered by event type, priority tier and optional predicates; the bus invokes
// matching callbacks in a deterministic order on the caller's goroutine.
//
// Event types form a hierarchy: a listener registered for a base type also receives every
// derived type. Many independent buses can coexist; each has its own listeners while sharing
// the per-type listener lists kept in the process-wide directory.
//
// # Package Organization
//
//	github.com/dmitrymomot/eventbus              - Bus, listener options, registrars, typed subscription helpers
//	github.com/dmitrymomot/eventbus/core/event   - Event model, types, priorities, listener lists and directory
//	github.com/dmitrymomot/eventbus/core/config  - Type-safe environment variable loading
//	github.com/dmitrymomot/eventbus/core/logger  - Structured logging built on slog
//
// # Basic Usage
//
//	var PlayerJoin = event.NewType("PlayerJoin", nil)
//
//	type PlayerJoinEvent struct {
//		*event.Base
//		Name string
//	}
//
//	bus := eventbus.New(eventbus.WithLogger(log))
//
//	_, err := eventbus.Subscribe(bus, PlayerJoin, func(evt *PlayerJoinEvent) error {
//		if evt.Name == "griefer" {
//			return evt.SetCanceled(true)
//		}
//		return nil
//	}, eventbus.WithPriority(event.High))
//
//	canceled, err := bus.Post(&PlayerJoinEvent{
//		Base: event.NewBase(PlayerJoin, event.Cancelable()),
//		Name: "steve",
//	})
//
// # Dispatch Semantics
//
// Listeners run in tier order (Highest first), in registration order within a tier, with
// ancestor-type listeners ahead of derived-type listeners of the same tier. Cancellation
// never stops dispatch: listeners added without ReceiveCanceled are skipped by their own
// filter once the event is canceled, the rest still run. Post reports whether a cancelable
// event ended canceled.
//
// The first listener that returns an error or panics stops dispatch. The bus exception
// handler sees the dispatch array and the failing index, then Post returns a *ListenerError.
//
// # Registrars
//
// Register wires whole subscribers through a Registrars table declared at startup:
//
//	eventbus.RegisterInstance(eventbus.DefaultRegistrars(), func(p *Plugin, a eventbus.Adder) error {
//		_, err := eventbus.Subscribe(a, PlayerJoin, p.onJoin)
//		return err
//	})
//
//	_ = bus.Register(plugin)
//	bus.Unregister(plugin)
//
// # Configuration
//
// NewFromEnv reads EVENTBUS_TRACK_PHASES, EVENTBUS_START_SHUTDOWN, EVENTBUS_LOG_LEVEL and
// EVENTBUS_LOG_FORMAT (a .env file is honored) and applies further options on top.
// ConfigFromFile overlays a YAML file on the same settings; pass the result to WithConfig.
package eventbus
