// Package log provides the structured logging facade used across listx.
//
// # Overview
//
// Logger is a small leveled interface with Field values for structured
// context. Records are routed through log/slog using a bridge handler that
// hands them to a Formatter and one or more Outputs, so the slog ecosystem can
// be used while output stays consistent.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("dispatch"), log.Str("ns", "default"))
//	l.Info("command executed", log.Str("cmd", "LIST_EXTEND.FILTER"), log.Int64("count", 2))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text/json
// format, console/file/null outputs, redacted keys, sampling).
//
// # Interop
//
// RedirectStdLog routes the standard library logger (used by Pebble) into a
// Logger, and ToStdLogger wraps a Logger as a *log.Logger.
package log
