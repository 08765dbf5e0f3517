package liststore

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rzbill/listx/internal/listext"
)

// Tx is a transactional view of one namespace. It is not safe for concurrent use.
type Tx struct {
	batch    *pebble.Batch
	ns       string
	limits   Limits
	writable bool
	// replicate is the argv to journal with this transaction, if any.
	replicate [][]byte
}

// Replicate asks for argv to be journaled in the same commit as the
// transaction's writes. The last call wins.
func (tx *Tx) Replicate(argv [][]byte) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.replicate = argv
	return nil
}

// Namespace returns the namespace the transaction is scoped to.
func (tx *Tx) Namespace() string { return tx.ns }

func (tx *Tx) get(k []byte) ([]byte, bool, error) {
	v, closer, err := tx.batch.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), true, nil
}

// header returns the raw header value for key, or nil when absent.
func (tx *Tx) header(key string) ([]byte, error) {
	v, ok, err := tx.get(KeyHeader(tx.ns, key))
	if err != nil || !ok {
		return nil, err
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("liststore: empty header for %q", key)
	}
	return v, nil
}

// listHeader loads the list header. exists is false for absent keys;
// ErrWrongType is returned when the key holds a string.
func (tx *Tx) listHeader(key string) (h listHeader, exists bool, err error) {
	raw, err := tx.header(key)
	if err != nil || raw == nil {
		return listHeader{}, false, err
	}
	if raw[0] != typeList {
		return listHeader{}, true, ErrWrongType
	}
	h, ok := decodeListHeader(raw)
	if !ok {
		return listHeader{}, true, fmt.Errorf("liststore: corrupt list header for %q", key)
	}
	return h, true, nil
}

func (tx *Tx) checkWritable() error {
	if !tx.writable {
		return ErrReadOnly
	}
	return nil
}

// Kind reports what key holds.
func (tx *Tx) Kind(key string) (listext.Kind, error) {
	raw, err := tx.header(key)
	if err != nil {
		return listext.KindAbsent, err
	}
	switch {
	case raw == nil:
		return listext.KindAbsent, nil
	case raw[0] == typeList:
		return listext.KindList, nil
	default:
		return listext.KindOther, nil
	}
}

// Type returns the Redis-style type name: none, list or string.
func (tx *Tx) Type(key string) (string, error) {
	raw, err := tx.header(key)
	if err != nil {
		return "", err
	}
	switch {
	case raw == nil:
		return "none", nil
	case raw[0] == typeList:
		return "list", nil
	case raw[0] == typeString:
		return "string", nil
	default:
		return "unknown", nil
	}
}

// Len returns the length of the list at key (0 when absent).
func (tx *Tx) Len(key string) (int64, error) {
	h, _, err := tx.listHeader(key)
	if err != nil {
		return 0, err
	}
	return h.length(), nil
}

func (tx *Tx) checkPush(h listHeader, elems [][]byte) error {
	if max := tx.limits.MaxListLength; max > 0 && h.length()+int64(len(elems)) > max {
		return fmt.Errorf("%w: list would exceed %d elements", ErrLimitExceeded, max)
	}
	if max := tx.limits.MaxElementBytes; max > 0 {
		for _, e := range elems {
			if len(e) > max {
				return fmt.Errorf("%w: element of %d bytes exceeds %d", ErrLimitExceeded, len(e), max)
			}
		}
	}
	return nil
}

func (tx *Tx) push(key string, head bool, elems [][]byte) (int64, error) {
	if err := tx.checkWritable(); err != nil {
		return 0, err
	}
	h, _, err := tx.listHeader(key)
	if err != nil {
		return 0, err
	}
	if err := tx.checkPush(h, elems); err != nil {
		return 0, err
	}
	for _, e := range elems {
		var pos int64
		if head {
			h.head--
			pos = h.head
		} else {
			pos = h.tail
			h.tail++
		}
		if err := tx.batch.Set(KeyElement(tx.ns, key, pos), e, nil); err != nil {
			return 0, err
		}
	}
	if err := tx.batch.Set(KeyHeader(tx.ns, key), encodeListHeader(h), nil); err != nil {
		return 0, err
	}
	return h.length(), nil
}

// PushHead inserts elems at the head one after another (LPUSH order) and
// returns the new length.
func (tx *Tx) PushHead(key string, elems ...[]byte) (int64, error) {
	return tx.push(key, true, elems)
}

// PushTail appends elems at the tail (RPUSH order) and returns the new length.
func (tx *Tx) PushTail(key string, elems ...[]byte) (int64, error) {
	return tx.push(key, false, elems)
}

func (tx *Tx) pop(key string, head bool) ([]byte, bool, error) {
	if err := tx.checkWritable(); err != nil {
		return nil, false, err
	}
	h, exists, err := tx.listHeader(key)
	if err != nil || !exists || h.length() == 0 {
		return nil, false, err
	}
	var pos int64
	if head {
		pos = h.head
		h.head++
	} else {
		h.tail--
		pos = h.tail
	}
	ek := KeyElement(tx.ns, key, pos)
	v, ok, err := tx.get(ek)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("liststore: missing element %d of %q", pos, key)
	}
	if err := tx.batch.Delete(ek, nil); err != nil {
		return nil, false, err
	}
	if h.length() == 0 {
		err = tx.batch.Delete(KeyHeader(tx.ns, key), nil)
	} else {
		err = tx.batch.Set(KeyHeader(tx.ns, key), encodeListHeader(h), nil)
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// PopHead removes and returns the first element.
func (tx *Tx) PopHead(key string) ([]byte, bool, error) { return tx.pop(key, true) }

// PopTail removes and returns the last element.
func (tx *Tx) PopTail(key string) ([]byte, bool, error) { return tx.pop(key, false) }

// Range returns elements between start and stop inclusive using LRANGE index
// rules: negative indexes count from the tail and out-of-range indexes are
// clamped.
func (tx *Tx) Range(key string, start, stop int64) ([][]byte, error) {
	h, _, err := tx.listHeader(key)
	if err != nil {
		return nil, err
	}
	n := h.length()
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return [][]byte{}, nil
	}
	out := make([][]byte, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		v, ok, err := tx.get(KeyElement(tx.ns, key, h.head+i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("liststore: missing element %d of %q", h.head+i, key)
		}
		out = append(out, v)
	}
	return out, nil
}

// deleteKey removes key whatever it holds, reporting whether it existed.
func (tx *Tx) deleteKey(key string) (bool, error) {
	if err := tx.checkWritable(); err != nil {
		return false, err
	}
	raw, err := tx.header(key)
	if err != nil || raw == nil {
		return false, err
	}
	if h, ok := decodeListHeader(raw); ok && h.length() > 0 {
		lo := KeyElement(tx.ns, key, h.head)
		hi := KeyElement(tx.ns, key, h.tail)
		if err := tx.batch.DeleteRange(lo, hi, nil); err != nil {
			return false, err
		}
	}
	return true, tx.batch.Delete(KeyHeader(tx.ns, key), nil)
}

// Delete removes keys and returns how many existed.
func (tx *Tx) Delete(keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		ok, err := tx.deleteKey(k)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// SetString stores a string value, replacing whatever key held.
func (tx *Tx) SetString(key string, value []byte) error {
	if max := tx.limits.MaxElementBytes; max > 0 && len(value) > max {
		return fmt.Errorf("%w: value of %d bytes exceeds %d", ErrLimitExceeded, len(value), max)
	}
	if _, err := tx.deleteKey(key); err != nil {
		return err
	}
	return tx.batch.Set(KeyHeader(tx.ns, key), encodeString(value), nil)
}

// GetString returns the string stored at key. ErrWrongType is returned for lists.
func (tx *Tx) GetString(key string) ([]byte, bool, error) {
	raw, err := tx.header(key)
	if err != nil || raw == nil {
		return nil, false, err
	}
	if raw[0] != typeString {
		return nil, false, ErrWrongType
	}
	return raw[1:], true, nil
}

// OpenSequence implements listext.Keyspace.
func (tx *Tx) OpenSequence(key string, mode listext.Mode) (listext.Sequence, error) {
	if mode&listext.ModeWrite != 0 && !tx.writable {
		return nil, ErrReadOnly
	}
	return &sequence{tx: tx, key: key, mode: mode}, nil
}

// sequence is a listext.Sequence bound to a key inside a Tx. It holds no
// cached state, so two handles on the same key stay consistent.
type sequence struct {
	tx     *Tx
	key    string
	mode   listext.Mode
	closed bool
}

func (s *sequence) check(write bool) error {
	if s.closed {
		return errors.New("liststore: sequence closed")
	}
	if write && s.mode&listext.ModeWrite == 0 {
		return ErrReadOnly
	}
	return nil
}

func (s *sequence) Kind() (listext.Kind, error) {
	if err := s.check(false); err != nil {
		return listext.KindAbsent, err
	}
	return s.tx.Kind(s.key)
}

func (s *sequence) Len() (int64, error) {
	if err := s.check(false); err != nil {
		return 0, err
	}
	return s.tx.Len(s.key)
}

func (s *sequence) Delete() error {
	if err := s.check(true); err != nil {
		return err
	}
	_, err := s.tx.deleteKey(s.key)
	return err
}

func (s *sequence) PopTail() ([]byte, bool, error) {
	if err := s.check(true); err != nil {
		return nil, false, err
	}
	return s.tx.PopTail(s.key)
}

func (s *sequence) PushHead(elem []byte) error {
	if err := s.check(true); err != nil {
		return err
	}
	_, err := s.tx.PushHead(s.key, elem)
	return err
}

func (s *sequence) Close() error {
	s.closed = true
	return nil
}
