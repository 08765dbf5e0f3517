package replog

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/rzbill/listx/pkg/id"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeRecord frames header and payload with a length prefix and checksum.
func EncodeRecord(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

// DecodeRecord validates the checksum and splits a framed record.
func DecodeRecord(b []byte) (header, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || uint64(n)+hlen+4 > uint64(len(b)) {
		return nil, nil, false
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, false
	}
	return append([]byte(nil), header...), append([]byte(nil), payload...), true
}

func encodeHeader(entryID id.ID, namespace string) []byte {
	h := make([]byte, 0, len(entryID)+len(namespace))
	h = append(h, entryID[:]...)
	return append(h, namespace...)
}

func decodeHeader(h []byte) (id.ID, string, bool) {
	if len(h) < len(id.ID{}) {
		return id.ID{}, "", false
	}
	entryID, ok := id.FromBytes(h[:len(id.ID{})])
	return entryID, string(h[len(id.ID{}):]), ok
}

func encodeArgv(argv [][]byte) []byte {
	size := binary.MaxVarintLen64
	for _, a := range argv {
		size += binary.MaxVarintLen64 + len(a)
	}
	out := make([]byte, 0, size)
	out = binary.AppendUvarint(out, uint64(len(argv)))
	for _, a := range argv {
		out = binary.AppendUvarint(out, uint64(len(a)))
		out = append(out, a...)
	}
	return out
}

func decodeArgv(b []byte) ([][]byte, bool) {
	count, n := binary.Uvarint(b)
	if n <= 0 || count > uint64(len(b)) {
		return nil, false
	}
	b = b[n:]
	argv := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		l, n := binary.Uvarint(b)
		if n <= 0 || uint64(n)+l > uint64(len(b)) {
			return nil, false
		}
		argv = append(argv, append([]byte(nil), b[n:n+int(l)]...))
		b = b[n+int(l):]
	}
	return argv, len(b) == 0
}
