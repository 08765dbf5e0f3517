package listext

import (
	"math"
	"strconv"
)

const (
	// NegInf is the sentinel token for an unbounded lower limit.
	NegInf = "-inf"
	// PosInf is the sentinel token for an unbounded upper limit.
	PosInf = "+inf"
)

// Bound is one endpoint of an inclusive integer range.
type Bound struct {
	Value int64
	Valid bool
}

// ParseBound interprets tok as a range endpoint. The sentinels -inf and +inf
// map to math.MinInt64 and math.MaxInt64; anything else must be a canonical
// int64 or the bound is invalid.
func ParseBound(tok string) Bound {
	switch tok {
	case NegInf:
		return Bound{Value: math.MinInt64, Valid: true}
	case PosInf:
		return Bound{Value: math.MaxInt64, Valid: true}
	}
	v, ok := ParseInt([]byte(tok))
	return Bound{Value: v, Valid: ok}
}

// Range is an inclusive [Lower, Upper] interval.
type Range struct {
	Lower Bound
	Upper Bound
}

// ParseRange parses both endpoint tokens independently.
func ParseRange(lower, upper string) Range {
	return Range{Lower: ParseBound(lower), Upper: ParseBound(upper)}
}

// Valid reports whether both endpoints parsed.
func (r Range) Valid() bool { return r.Lower.Valid && r.Upper.Valid }

// Contains reports whether v lies in the range. An invalid range contains nothing.
func (r Range) Contains(v int64) bool {
	return r.Valid() && r.Lower.Value <= v && v <= r.Upper.Value
}

// ParseInt parses b as a base-10 int64 in canonical form: an optional '-'
// followed by digits with no leading zeros, no '+', no whitespace, and not
// "-0". Only text that FormatInt would produce is accepted.
func ParseInt(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 20 {
		return 0, false
	}
	s := string(b)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatInt(v, 10) != s {
		return 0, false
	}
	return v, true
}
