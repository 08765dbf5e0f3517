package listext

import "errors"

// Kind classifies the value stored under a key.
type Kind int

const (
	// KindAbsent means no value exists under the key.
	KindAbsent Kind = iota
	// KindList means the key holds a list.
	KindList
	// KindOther means the key holds a value of another type.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "none"
	case KindList:
		return "list"
	default:
		return "other"
	}
}

// Mode selects how a sequence is opened.
type Mode uint8

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeReadWrite = ModeRead | ModeWrite
)

var (
	// ErrWrongType is returned when the source key holds a non-list value.
	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	// ErrStorageWrite wraps any failed push performed by the transform.
	ErrStorageWrite = errors.New("ERR storage write failed")
)

// Sequence is an open handle on a double-ended list.
type Sequence interface {
	// Kind reports what the key currently holds.
	Kind() (Kind, error)
	// Len returns the number of elements, 0 when absent.
	Len() (int64, error)
	// Delete removes the value under the key whatever its type. Deleting an
	// absent key is a no-op.
	Delete() error
	// PopTail removes and returns the last element; ok is false when empty.
	PopTail() (elem []byte, ok bool, err error)
	// PushHead inserts elem before the first element, creating the list if needed.
	PushHead(elem []byte) error
	// Close releases the handle.
	Close() error
}

// Keyspace opens sequences by key.
type Keyspace interface {
	OpenSequence(key string, mode Mode) (Sequence, error)
}
