// Package logger provides structured logging utilities built on Go's standard slog package:
// a small logger factory with functional options and attribute helpers for the event bus.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/eventbus/core/logger"
//
//	// Defaults: text format, info level, stdout
//	log := logger.New()
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("node", "a1")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty values, which slog drops:
//
//	log.Error("listener failed",
//		logger.BusID(bus.ID()),
//		logger.EventType(evt.Type().Name()),
//		logger.EventID(evt.ID()),
//		logger.ListenerIndex(3),
//		logger.Error(err),
//	)
package logger
