package listext

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBound(t *testing.T) {
	tests := []struct {
		tok  string
		want Bound
	}{
		{"-inf", Bound{Value: math.MinInt64, Valid: true}},
		{"+inf", Bound{Value: math.MaxInt64, Valid: true}},
		{"5", Bound{Value: 5, Valid: true}},
		{"-12", Bound{Value: -12, Valid: true}},
		{"9223372036854775807", Bound{Value: math.MaxInt64, Valid: true}},
		{"-9223372036854775808", Bound{Value: math.MinInt64, Valid: true}},
		{"9223372036854775808", Bound{}},
		{"abc", Bound{}},
		{"inf", Bound{}},
		{"+5", Bound{}},
		{"05", Bound{}},
		{" 5", Bound{}},
		{"-0", Bound{}},
		{"", Bound{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.tok), func(t *testing.T) {
			require.Equal(t, tt.want, ParseBound(tt.tok))
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := ParseRange("5", "10")
	require.True(t, r.Valid())
	require.False(t, r.Contains(4))
	require.True(t, r.Contains(5))
	require.True(t, r.Contains(10))
	require.False(t, r.Contains(11))

	require.False(t, ParseRange("abc", "10").Contains(7))
	require.True(t, ParseRange("-inf", "+inf").Contains(math.MinInt64))
	require.True(t, ParseRange("-inf", "+inf").Contains(math.MaxInt64))
	// inverted ranges are valid but empty
	require.False(t, ParseRange("10", "5").Contains(7))
}

func TestFilterMixedElements(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "3", "7", "10", "11", "x")

	n, err := Filter(ks, "src", "dst", "5", "10")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, []string{"7", "10"}, ks.list("dst"))
	require.Equal(t, []string{"3", "7", "10", "11", "x"}, ks.list("src"))
}

func TestFilterUnbounded(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "-9223372036854775808", "a", "0", "9223372036854775807", "1.5", "42")

	n, err := Filter(ks, "src", "dst", "-inf", "+inf")
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
	require.Equal(t, []string{"-9223372036854775808", "0", "9223372036854775807", "42"}, ks.list("dst"))
}

func TestFilterSentinelsAcceptedOnEitherSide(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "1", "2")

	// +inf as a lower bound is a valid (empty) range, not a parse failure
	n, err := Filter(ks, "src", "dst", "+inf", "+inf")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = Filter(ks, "src", "dst", "-inf", "-inf")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFilterMalformedBoundStillRotates(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "1", "2", "3")
	ks.seed("dst", "stale")

	n, err := Filter(ks, "src", "dst", "abc", "+inf")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, ks.list("dst"))
	require.Equal(t, []string{"1", "2", "3"}, ks.list("src"))
}

func TestFilterEmptySourceClearsDestination(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("dst", "old1", "old2")

	n, err := Filter(ks, "missing", "dst", "whatever", "tokens")
	require.NoError(t, err)
	require.Zero(t, n)
	_, exists := ks.lists["dst"]
	require.False(t, exists, "destination must be deleted")
}

func TestFilterEmptySourceSkipsBoundParsing(t *testing.T) {
	ks := newMemKeyspace()
	parsed := false
	n, err := drain(ks, "missing", "dst", func() Predicate {
		parsed = true
		return func(int64, []byte) ([]byte, bool) { return nil, false }
	})
	require.NoError(t, err)
	require.Zero(t, n)
	require.False(t, parsed)
}

func TestFilterWrongTypeLeavesDestination(t *testing.T) {
	ks := newMemKeyspace()
	ks.strings["src"] = []byte("scalar")
	ks.seed("dst", "keep")

	_, err := Filter(ks, "src", "dst", "-inf", "+inf")
	require.ErrorIs(t, err, ErrWrongType)
	require.Equal(t, []string{"keep"}, ks.list("dst"))
	require.Equal(t, ks.opened, ks.closed, "every opened handle is closed")
}

func TestFilterDestinationOfOtherTypeIsReplaced(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "4")
	ks.strings["dst"] = []byte("scalar")

	n, err := Filter(ks, "src", "dst", "-inf", "+inf")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, isString := ks.strings["dst"]
	require.False(t, isString)
	require.Equal(t, []string{"4"}, ks.list("dst"))
}

func TestFilterSameKeyYieldsZero(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("k", "1", "2")

	n, err := Filter(ks, "k", "k", "-inf", "+inf")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, ks.list("k"))
}

func TestFilterStorageWriteAbortsImmediately(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "1", "2", "3", "4")
	ks.failKey = "dst"
	ks.failPushAfter = 2

	n, err := Filter(ks, "src", "dst", "-inf", "+inf")
	require.ErrorIs(t, err, ErrStorageWrite)
	require.True(t, errors.Is(err, errInjected))
	require.EqualValues(t, 1, n)
	require.Equal(t, []string{"4"}, ks.list("dst"))
	// the failing step had already rotated its element: 3 then 4 moved to the head
	require.Equal(t, []string{"3", "4", "1", "2"}, ks.list("src"))
	require.Equal(t, ks.opened, ks.closed)
}

func TestFilterRepeatedCallsSameDestination(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "9", "1", "5", "7")

	first, err := Filter(ks, "src", "dst", "2", "8")
	require.NoError(t, err)
	dst1 := ks.list("dst")
	second, err := Filter(ks, "src", "dst", "2", "8")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.ElementsMatch(t, dst1, ks.list("dst"))
}

func TestFilterRejectsNonCanonicalIntegers(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "007", "-0", "+3", "12")

	n, err := Filter(ks, "src", "dst", "-inf", "+inf")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.Equal(t, []string{"12"}, ks.list("dst"))
}

func TestDrainVisitOrder(t *testing.T) {
	ks := newMemKeyspace()
	ks.seed("src", "a", "b", "c")

	var visited []string
	var indexes []int64
	n, err := Drain(ks, "src", "dst", func(i int64, e []byte) ([]byte, bool) {
		visited = append(visited, string(e))
		indexes = append(indexes, i)
		return e, string(e) != "b"
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, []string{"c", "b", "a"}, visited)
	require.Equal(t, []int64{0, 1, 2}, indexes)
	require.Equal(t, []string{"a", "c"}, ks.list("dst"))
	require.Equal(t, []string{"a", "b", "c"}, ks.list("src"))
}
