package log

import (
	stdlog "log"
	"strings"
)

type stdWriter struct {
	l     Logger
	level Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	switch w.level {
	case DebugLevel:
		w.l.Debug(msg)
	case WarnLevel:
		w.l.Warn(msg)
	case ErrorLevel, FatalLevel:
		w.l.Error(msg)
	default:
		w.l.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger wraps l as a *log.Logger that logs every line at level.
func ToStdLogger(l Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdWriter{l: l, level: level}, "", 0)
}

// RedirectStdLog routes the standard library's default logger into l at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{l: l.With(Component("stdlog")), level: InfoLevel})
}
