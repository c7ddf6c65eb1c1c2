// Package logging provides a minimal logging interface and adapters for teamwork.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the engine, agents and providers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap
//   - StructuredLogger with run and component context
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng := engine.New(func(o *engine.Options) { o.Logger = logger })
//
// Arguments after the message are alternating key/value pairs.
package logging
