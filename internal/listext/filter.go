package listext

import (
	"fmt"
	"strconv"
)

// Predicate decides whether the element visited at position index (0-based,
// in visit order) is copied to the destination, and returns the bytes to push.
type Predicate func(index int64, elem []byte) (out []byte, keep bool)

// Filter drains src through a rotation pass and pushes every element whose
// integer value lies within [lower, upper] onto the head of dst, returning the
// number pushed. dst is deleted first. Malformed bounds or elements never fail
// the call; they simply match nothing.
func Filter(ks Keyspace, src, dst, lower, upper string) (int64, error) {
	return drain(ks, src, dst, func() Predicate {
		return RangePredicate(ParseRange(lower, upper))
	})
}

// RangePredicate keeps canonical integers inside r and re-encodes them in
// decimal. An invalid range keeps nothing.
func RangePredicate(r Range) Predicate {
	return func(_ int64, elem []byte) ([]byte, bool) {
		if !r.Valid() {
			return nil, false
		}
		v, ok := ParseInt(elem)
		if !ok || !r.Contains(v) {
			return nil, false
		}
		return strconv.AppendInt(nil, v, 10), true
	}
}

// Drain runs the rotate-and-inspect pass with an arbitrary predicate.
func Drain(ks Keyspace, src, dst string, keep Predicate) (int64, error) {
	return drain(ks, src, dst, func() Predicate { return keep })
}

// drain builds the predicate lazily so an empty source never parses bounds.
func drain(ks Keyspace, src, dst string, predicate func() Predicate) (count int64, err error) {
	source, err := ks.OpenSequence(src, ModeReadWrite)
	if err != nil {
		return 0, err
	}
	defer closeInto(source, &err)

	kind, err := source.Kind()
	if err != nil {
		return 0, err
	}
	if kind != KindList && kind != KindAbsent {
		return 0, ErrWrongType
	}

	dest, err := ks.OpenSequence(dst, ModeWrite)
	if err != nil {
		return 0, err
	}
	defer closeInto(dest, &err)
	if err := dest.Delete(); err != nil {
		return 0, err
	}

	// Read after the delete: when src == dst the source is now empty.
	n, err := source.Len()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	keep := predicate()
	for pos := int64(0); pos < n; pos++ {
		elem, ok, err := source.PopTail()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		if err := source.PushHead(elem); err != nil {
			return count, fmt.Errorf("%w: %w", ErrStorageWrite, err)
		}
		out, match := keep(pos, elem)
		if !match {
			continue
		}
		if err := dest.PushHead(out); err != nil {
			return count, fmt.Errorf("%w: %w", ErrStorageWrite, err)
		}
		count++
	}
	return count, nil
}

func closeInto(s Sequence, errp *error) {
	if cerr := s.Close(); cerr != nil && *errp == nil {
		*errp = cerr
	}
}
