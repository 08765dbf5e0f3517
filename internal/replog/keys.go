package replog

import "encoding/binary"

var (
	metaKey     = []byte("repl/m")
	entryPrefix = []byte("repl/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	return appendBE8(k, seq)
}

func seqFromKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(entryPrefix):])
}
