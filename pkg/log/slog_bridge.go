package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
)

const slogLevelFatal = slog.LevelError + 4

// bridgeHandler is a slog.Handler that hands records to the BaseLogger's
// formatter and outputs.
type bridgeHandler struct {
	logger     *BaseLogger
	attrs      []slog.Attr
	group      string
	redactions map[string]struct{}
	sampler    *sampler
}

func newBridgeHandler(logger *BaseLogger) *bridgeHandler {
	return &bridgeHandler{logger: logger}
}

// Enabled gates by the BaseLogger level.
func (h *bridgeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return Level(h.logger.level.Load()) <= fromSlogLevel(level)
}

// Handle converts the record into an Entry, formats it once and writes it to
// every output.
func (h *bridgeHandler) Handle(_ context.Context, r slog.Record) error {
	if h.sampler != nil && !h.sampler.allow(r.Level, r.Message) {
		return nil
	}
	fields := make(Fields, len(h.attrs)+r.NumAttrs())
	put := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		if _, ok := h.redactions[a.Key]; ok {
			fields[key] = "[REDACTED]"
			return true
		}
		fields[key] = a.Value.Any()
		return true
	}
	for _, a := range h.attrs {
		put(a)
	}
	r.Attrs(put)

	caller := ""
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := frames.Next()
		if f.File != "" {
			caller = f.File + ":" + strconv.Itoa(f.Line)
		}
	}

	entry := &Entry{
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Fields:    fields,
		Timestamp: r.Time,
		Caller:    caller,
	}
	formatted, err := h.logger.formatter.Format(entry)
	if err != nil {
		return err
	}
	for _, out := range h.logger.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

// WithAttrs returns a copy of the handler with additional base attributes.
func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	if len(attrs) > 0 {
		nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	}
	return &nh
}

// WithGroup returns a copy of the handler whose keys are prefixed by name.
func (h *bridgeHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	nh.group = name
	return &nh
}

func (h *bridgeHandler) withRedactions(keys []string) *bridgeHandler {
	if len(keys) == 0 {
		return h
	}
	nh := *h
	nh.redactions = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		nh.redactions[k] = struct{}{}
	}
	return &nh
}

func (h *bridgeHandler) withSampler(initial, thereafter int) *bridgeHandler {
	if thereafter <= 0 {
		return h
	}
	nh := *h
	nh.sampler = newSampler(initial, thereafter)
	return &nh
}

// sampler implements simple per-message sampling.
type sampler struct {
	mu         sync.Mutex
	initial    uint64
	thereafter uint64
	counts     map[string]uint64
}

func newSampler(initial, thereafter int) *sampler {
	if initial < 0 {
		initial = 0
	}
	return &sampler{
		initial:    uint64(initial),
		thereafter: uint64(thereafter),
		counts:     make(map[string]uint64),
	}
}

func (s *sampler) allow(level slog.Level, message string) bool {
	key := strconv.Itoa(int(level)) + ":" + message
	s.mu.Lock()
	n := s.counts[key]
	s.counts[key] = n + 1
	s.mu.Unlock()
	if n < s.initial {
		return true
	}
	return (n-s.initial)%s.thereafter == 0
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return slogLevelFatal
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarnLevel
	case level < slogLevelFatal:
		return ErrorLevel
	default:
		return FatalLevel
	}
}

func attrsFromFields(fields []Field) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// attrsToAny converts []slog.Attr to []any for slog.Logger.With.
func attrsToAny(attrs []slog.Attr) []any {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]any, len(attrs))
	for i := range attrs {
		out[i] = attrs[i]
	}
	return out
}
