package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int32

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a textual level (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// Fields is a map of field names to values.
type Fields map[string]any

// Context keys for propagating logging context
const (
	RequestIDKey = "request_id"
	ComponentKey = "component"
	CommandKey   = "cmd"
)

type ctxKey string

// ContextWithRequestID returns a copy of ctx carrying a request id that
// WithContext attaches to log entries.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey(RequestIDKey), id)
}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger defines the core logging interface for listx components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger that always carries fields.
	With(fields ...Field) Logger
	// WithError attaches err under the "error" key.
	WithError(err error) Logger
	// WithContext attaches request-scoped values found in ctx.
	WithContext(ctx context.Context) Logger
	// WithComponent tags logs with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements Logger on top of slog.
type BaseLogger struct {
	level      *atomic.Int32
	formatter  Formatter
	outputs    []Output
	redactions []string
	sampleInit int
	sampleNext int
	slogLogger *slog.Logger
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	l := &BaseLogger{
		level:     new(atomic.Int32),
		formatter: &JSONFormatter{},
	}
	l.level.Store(int32(InfoLevel))
	for _, option := range options {
		option(l)
	}
	if len(l.outputs) == 0 {
		l.outputs = append(l.outputs, NewConsoleOutput())
	}
	h := newBridgeHandler(l).withRedactions(l.redactions).withSampler(l.sampleInit, l.sampleNext)
	l.slogLogger = slog.New(h)
	return l
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return NewLogger(WithLevel(FatalLevel), WithOutput(&NullOutput{}))
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { l.level.Store(int32(level)) }
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) { l.formatter = formatter }
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) { l.outputs = append(l.outputs, output) }
}

// WithRedactedKeys replaces the values of the given field keys with [REDACTED].
func WithRedactedKeys(keys ...string) LoggerOption {
	return func(l *BaseLogger) { l.redactions = append(l.redactions, keys...) }
}

// WithSampling logs the first `initial` occurrences of each message and then
// every `thereafter`-th one.
func WithSampling(initial, thereafter int) LoggerOption {
	return func(l *BaseLogger) {
		l.sampleInit = initial
		l.sampleNext = thereafter
	}
}

func (l *BaseLogger) child(sl *slog.Logger) *BaseLogger {
	nl := *l
	nl.slogLogger = sl
	return &nl
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if Level(l.level.Load()) > level {
		return
	}
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrsFromFields(fields)...)
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Fatal logs at error severity and exits the process.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields)
	os.Exit(1)
}

func (l *BaseLogger) Debugf(format string, args ...any) {
	l.log(DebugLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Infof(format string, args ...any) {
	l.log(InfoLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Warnf(format string, args ...any) {
	l.log(WarnLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Errorf(format string, args ...any) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...), nil)
}

func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return l.child(l.slogLogger.With(attrsToAny(attrsFromFields(fields))...))
}

func (l *BaseLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(Err(err))
}

func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	if v, ok := ctx.Value(ctxKey(RequestIDKey)).(string); ok && v != "" {
		return l.With(Str(RequestIDKey, v))
	}
	return l
}

func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel changes the level for this logger and every logger derived from it.
func (l *BaseLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *BaseLogger) GetLevel() Level { return Level(l.level.Load()) }
