package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TextFormatter renders entries as a single human-readable line:
//
//	2025-01-02T15:04:05.000Z INFO  message key=value ...
type TextFormatter struct {
	// TimeFormat overrides the timestamp layout (default RFC3339 with millis).
	TimeFormat string
	// ShowCaller appends the caller location when known.
	ShowCaller bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(e *Entry) ([]byte, error) {
	layout := f.TimeFormat
	if layout == "" {
		layout = "2006-01-02T15:04:05.000Z07:00"
	}
	var buf bytes.Buffer
	buf.WriteString(e.Timestamp.Format(layout))
	buf.WriteByte(' ')
	fmt.Fprintf(&buf, "%-5s", e.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(e.Message)
	for _, k := range sortedKeys(e.Fields) {
		fmt.Fprintf(&buf, " %s=%v", k, e.Fields[k])
	}
	if f.ShowCaller && e.Caller != "" {
		buf.WriteString(" caller=")
		buf.WriteString(e.Caller)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(e *Entry) ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+4)
	for k, v := range e.Fields {
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}
		m[k] = v
	}
	m["ts"] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	if e.Caller != "" {
		m["caller"] = e.Caller
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func sortedKeys(f Fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
