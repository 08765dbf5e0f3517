package liststore

import (
	"encoding/binary"
)

// Keyspace layout (byte-wise):
//   - ns/{uvarint nslen}{ns}/k/{uvarint keylen}{key}                  value header: type byte + payload
//   - ns/{uvarint nslen}{ns}/l/{uvarint keylen}{key}{pos_be8^signbit}  list element at position pos
//
// Namespace and user key are length-prefixed so that no key's range can
// overlap another key's, whatever bytes the names contain. Positions are int64 with the sign bit flipped so that
// negative positions (grown by head pushes) sort before positive ones.

var (
	nsPrefix   = []byte("ns/")
	headerSeg  = []byte("/k/")
	elementSeg = []byte("/l/")
)

const (
	typeList   byte = 'l'
	typeString byte = 's'
)

func appendLenPrefixed(dst []byte, s string) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(s)))
	dst = append(dst, tmp[:n]...)
	return append(dst, s...)
}

// KeyHeader builds the header key that records a key's type.
func KeyHeader(namespace, key string) []byte {
	k := make([]byte, 0, len(nsPrefix)+len(namespace)+len(headerSeg)+len(key)+4)
	k = append(k, nsPrefix...)
	k = appendLenPrefixed(k, namespace)
	k = append(k, headerSeg...)
	return appendLenPrefixed(k, key)
}

// KeyElementPrefix is the common prefix of every element key of a list.
func KeyElementPrefix(namespace, key string) []byte {
	k := make([]byte, 0, len(nsPrefix)+len(namespace)+len(elementSeg)+len(key)+12)
	k = append(k, nsPrefix...)
	k = appendLenPrefixed(k, namespace)
	k = append(k, elementSeg...)
	return appendLenPrefixed(k, key)
}

// KeyElement builds the key of the element at pos.
func KeyElement(namespace, key string, pos int64) []byte {
	return appendPos(KeyElementPrefix(namespace, key), pos)
}

func appendPos(dst []byte, pos int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(pos)^(1<<63))
	return append(dst, b[:]...)
}

// listHeader is the decoded header of a list: elements live at [head, tail).
type listHeader struct {
	head int64
	tail int64
}

func (h listHeader) length() int64 { return h.tail - h.head }

func encodeListHeader(h listHeader) []byte {
	out := make([]byte, 17)
	out[0] = typeList
	binary.BigEndian.PutUint64(out[1:9], uint64(h.head))
	binary.BigEndian.PutUint64(out[9:17], uint64(h.tail))
	return out
}

func decodeListHeader(b []byte) (listHeader, bool) {
	if len(b) != 17 || b[0] != typeList {
		return listHeader{}, false
	}
	return listHeader{
		head: int64(binary.BigEndian.Uint64(b[1:9])),
		tail: int64(binary.BigEndian.Uint64(b[9:17])),
	}, true
}

func encodeString(v []byte) []byte {
	out := make([]byte, 0, len(v)+1)
	out = append(out, typeString)
	return append(out, v...)
}
