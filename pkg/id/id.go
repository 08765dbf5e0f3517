package id

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"
)

// ID is a 128-bit, lexicographically sortable identifier:
// [8 bytes unix ms, big-endian][8 bytes per-ms sequence, big-endian].
type ID [16]byte

// Bytes returns a copy of the raw 16-byte representation.
func (i ID) Bytes() []byte { return append([]byte(nil), i[:]...) }

// String returns the lowercase hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// TimeMs returns the millisecond timestamp embedded in the ID.
func (i ID) TimeMs() int64 { return int64(binary.BigEndian.Uint64(i[:8])) }

// FromBytes reads an ID from b, reporting false when b is not 16 bytes long.
func FromBytes(b []byte) (ID, bool) {
	var out ID
	if len(b) != len(out) {
		return out, false
	}
	copy(out[:], b)
	return out, true
}

// Generator produces strictly increasing IDs within a process.
type Generator struct {
	mu     sync.Mutex
	lastMs int64
	seq    uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMs returns current time in milliseconds since Unix epoch.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns a new ID. A clock that moves backwards is clamped to the last
// observed millisecond so ordering is preserved.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	if ms == g.lastMs {
		g.seq++
	} else {
		g.seq = 0
	}
	g.lastMs = ms

	var out ID
	binary.BigEndian.PutUint64(out[0:8], uint64(ms))
	binary.BigEndian.PutUint64(out[8:16], g.seq)
	return out
}
