package log

import "time"

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value any
}

// Str constructs a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int constructs an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 constructs an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint64 constructs a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Bool constructs a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration constructs a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Any constructs a field holding an arbitrary value.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Err constructs the conventional "error" field. A nil error yields a nil value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags an entry with the emitting component.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
