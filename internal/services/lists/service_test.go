package lists

import (
	"context"
	"testing"

	"github.com/rzbill/listx/internal/command"
	cfgpkg "github.com/rzbill/listx/internal/config"
	"github.com/rzbill/listx/internal/listext"
	"github.com/rzbill/listx/internal/liststore"
	"github.com/rzbill/listx/internal/replog"
	"github.com/rzbill/listx/internal/runtime"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rt  *runtime.Runtime
	svc *Service
}

func newFixture(t *testing.T, mutate func(*cfgpkg.Config)) *fixture {
	t.Helper()
	cfg := cfgpkg.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever, Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	svc, err := NewWithLogger(rt, nil)
	require.NoError(t, err)
	return &fixture{rt: rt, svc: svc}
}

func (f *fixture) exec(t *testing.T, args ...string) (command.Reply, error) {
	t.Helper()
	argv := make([][]byte, len(args))
	for i, a := range args {
		argv[i] = []byte(a)
	}
	return f.svc.Execute(context.Background(), "", argv)
}

func (f *fixture) mustExec(t *testing.T, args ...string) command.Reply {
	t.Helper()
	r, err := f.exec(t, args...)
	require.NoError(t, err, "%v", args)
	return r
}

func (f *fixture) list(t *testing.T, key string) []string {
	t.Helper()
	r := f.mustExec(t, "LRANGE", key, "0", "-1")
	out := make([]string, 0, len(r.Array))
	for _, item := range r.Array {
		out = append(out, string(item.Bulk))
	}
	return out
}

func (f *fixture) replicated(t *testing.T) [][]string {
	t.Helper()
	entries, _, err := f.rt.ReplicationLog().Read(replog.ReadOptions{})
	require.NoError(t, err)
	var out [][]string
	for _, e := range entries {
		var call []string
		for _, a := range e.Argv {
			call = append(call, string(a))
		}
		out = append(out, call)
	}
	return out
}

func TestFilterMixedElements(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "3", "7", "10", "11", "x")
	f.mustExec(t, "RPUSH", "dst", "stale")

	r := f.mustExec(t, "LIST_EXTEND.FILTER", "src", "dst", "5", "10")
	require.Equal(t, command.Integer(2), r)
	require.Equal(t, []string{"3", "7", "10", "11", "x"}, f.list(t, "src"))
	require.Equal(t, []string{"7", "10"}, f.list(t, "dst"))
}

func TestFilterUnboundedCopiesEveryInteger(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "-9223372036854775808", "0", "abc", "9223372036854775807", "05")

	r := f.mustExec(t, "LIST_EXTEND.FILTER", "src", "dst", "-inf", "+inf")
	require.EqualValues(t, 3, r.Int)
	require.Equal(t, []string{"-9223372036854775808", "0", "9223372036854775807"}, f.list(t, "dst"))
}

func TestFilterMalformedBoundStillRotates(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "1", "2", "3")
	f.mustExec(t, "RPUSH", "dst", "old")

	r := f.mustExec(t, "LIST_EXTEND.FILTER", "src", "dst", "one", "10")
	require.EqualValues(t, 0, r.Int)
	require.Equal(t, []string{"1", "2", "3"}, f.list(t, "src"))
	require.Empty(t, f.list(t, "dst"))
	require.Equal(t, "none", f.mustExec(t, "TYPE", "dst").Status)
}

func TestFilterEmptySourceClearsDestination(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "dst", "old")
	r := f.mustExec(t, "LIST_EXTEND.FILTER", "missing", "dst", "0", "1")
	require.EqualValues(t, 0, r.Int)
	require.Empty(t, f.list(t, "dst"))
}

func TestFilterWrongTypeLeavesDestination(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "SET", "src", "scalar")
	f.mustExec(t, "RPUSH", "dst", "keep")

	_, err := f.exec(t, "LIST_EXTEND.FILTER", "src", "dst", "-inf", "+inf")
	require.ErrorIs(t, err, listext.ErrWrongType)
	require.Equal(t, []string{"keep"}, f.list(t, "dst"))
}

func TestFilterSameKeyEmptiesList(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "l", "1", "2")
	r := f.mustExec(t, "LIST_EXTEND.FILTER", "l", "l", "-inf", "+inf")
	require.EqualValues(t, 0, r.Int)
	require.Empty(t, f.list(t, "l"))
}

func TestFilterIsRepeatable(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "4", "8", "15", "16", "23", "42")
	for i := 0; i < 3; i++ {
		r := f.mustExec(t, "LIST_EXTEND.FILTER", "src", "dst", "10", "30")
		require.EqualValues(t, 3, r.Int)
		require.Equal(t, []string{"15", "16", "23"}, f.list(t, "dst"))
		require.Equal(t, []string{"4", "8", "15", "16", "23", "42"}, f.list(t, "src"))
	}
}

func TestFilterArity(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.exec(t, "LIST_EXTEND.FILTER", "src", "dst", "0")
	require.ErrorIs(t, err, command.ErrArity)
	_, err = f.exec(t, "list_extend.filter", "src", "dst", "0", "1", "extra")
	require.EqualError(t, err, "ERR wrong number of arguments for 'list_extend.filter' command")
}

func TestFilterStorageFailureIsTransactional(t *testing.T) {
	f := newFixture(t, func(c *cfgpkg.Config) { c.NamespaceDefaults.MaxListLength = 2 })
	// Seed a list longer than the namespace allows, bypassing its limits.
	require.NoError(t, f.rt.Store().Update(context.Background(), "default", liststore.Limits{}, func(tx *liststore.Tx) error {
		_, err := tx.PushTail("src", []byte("1"), []byte("2"), []byte("3"))
		return err
	}))
	f.mustExec(t, "RPUSH", "dst", "a")

	_, err := f.exec(t, "LIST_EXTEND.FILTER", "src", "dst", "-inf", "+inf")
	require.ErrorIs(t, err, listext.ErrStorageWrite)
	require.ErrorIs(t, err, liststore.ErrLimitExceeded)
	require.Equal(t, []string{"1", "2", "3"}, f.list(t, "src"))
	require.Equal(t, []string{"a"}, f.list(t, "dst"))
	require.Equal(t, [][]string{{"RPUSH", "dst", "a"}}, f.replicated(t))

	_, err = f.exec(t, "RPUSH", "dst", "b", "c")
	require.ErrorIs(t, err, listext.ErrStorageWrite)
	require.Equal(t, []string{"a"}, f.list(t, "dst"))
}

func TestFilterPropagatesVerbatim(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "1")
	f.mustExec(t, "LIST_EXTEND.FILTER", "src", "dst", "-inf", "1")
	_, err := f.exec(t, "LIST_EXTEND.FILTER", "src", "dst", "-inf")
	require.Error(t, err)
	f.mustExec(t, "LLEN", "src")

	require.Equal(t, [][]string{
		{"RPUSH", "src", "1"},
		{"LIST_EXTEND.FILTER", "src", "dst", "-inf", "1"},
	}, f.replicated(t))
}

func TestFilterDeniedWhenOverBudget(t *testing.T) {
	f := newFixture(t, func(c *cfgpkg.Config) { c.MaxDataBytes = 1 })
	_, err := f.exec(t, "LIST_EXTEND.FILTER", "src", "dst", "0", "1")
	require.ErrorIs(t, err, command.ErrOOM)
	// Non deny-oom commands still run.
	_, err = f.exec(t, "LPOP", "src")
	require.NoError(t, err)
}

func TestWhere(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "apple", "7", "banana", "12", "avocado")

	r := f.mustExec(t, "LIST_EXTEND.WHERE", "src", "dst", `value.startsWith("a")`)
	require.EqualValues(t, 2, r.Int)
	require.Equal(t, []string{"apple", "avocado"}, f.list(t, "dst"))
	require.Equal(t, []string{"apple", "7", "banana", "12", "avocado"}, f.list(t, "src"))

	r = f.mustExec(t, "LIST_EXTEND.WHERE", "src", "dst", "numeric && num > 10")
	require.EqualValues(t, 1, r.Int)
	require.Equal(t, []string{"12"}, f.list(t, "dst"))

	// index counts visits from the tail.
	r = f.mustExec(t, "LIST_EXTEND.WHERE", "src", "dst", "index == 0")
	require.EqualValues(t, 1, r.Int)
	require.Equal(t, []string{"avocado"}, f.list(t, "dst"))
}

func TestWhereInvalidExpressionMutatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "1")
	f.mustExec(t, "RPUSH", "dst", "keep")

	for _, expr := range []string{"value +", "num + 1", ""} {
		_, err := f.exec(t, "LIST_EXTEND.WHERE", "src", "dst", expr)
		require.ErrorIs(t, err, ErrInvalidExpression, expr)
	}
	require.Equal(t, []string{"keep"}, f.list(t, "dst"))
}

func TestPrimitiveCommands(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, command.Status("PONG"), f.mustExec(t, "PING"))
	require.Equal(t, "hi", string(f.mustExec(t, "PING", "hi").Bulk))
	_, err := f.exec(t, "PING", "a", "b")
	require.ErrorIs(t, err, command.ErrArity)

	require.EqualValues(t, 2, f.mustExec(t, "LPUSH", "l", "a", "b").Int)
	require.EqualValues(t, 3, f.mustExec(t, "RPUSH", "l", "c").Int)
	require.Equal(t, []string{"b", "a", "c"}, f.list(t, "l"))
	require.EqualValues(t, 3, f.mustExec(t, "LLEN", "l").Int)
	require.Equal(t, "list", f.mustExec(t, "TYPE", "l").Status)

	require.Equal(t, "b", string(f.mustExec(t, "LPOP", "l").Bulk))
	require.Equal(t, "c", string(f.mustExec(t, "RPOP", "l").Bulk))
	require.Equal(t, command.KindNil, f.mustExec(t, "LPOP", "missing").Kind)

	_, err = f.exec(t, "LRANGE", "l", "zero", "1")
	require.ErrorIs(t, err, command.ErrNotInteger)

	require.Equal(t, command.OK, f.mustExec(t, "SET", "s", "v"))
	require.Equal(t, "v", string(f.mustExec(t, "GET", "s").Bulk))
	require.Equal(t, command.KindNil, f.mustExec(t, "GET", "nope").Kind)
	_, err = f.exec(t, "GET", "l")
	require.ErrorIs(t, err, listext.ErrWrongType)
	_, err = f.exec(t, "LPUSH", "s", "x")
	require.ErrorIs(t, err, listext.ErrWrongType)

	require.EqualValues(t, 2, f.mustExec(t, "DEL", "l", "s", "nope").Int)
	require.Equal(t, "none", f.mustExec(t, "TYPE", "l").Status)

	_, err = f.exec(t, "NOPE")
	require.ErrorIs(t, err, command.ErrUnknownCommand)
}

func TestTypedFilter(t *testing.T) {
	f := newFixture(t, nil)
	f.mustExec(t, "RPUSH", "src", "1", "5", "9")
	n, err := f.svc.Filter(context.Background(), "", "src", "dst", "2", "+inf")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestCommandIntrospection(t *testing.T) {
	f := newFixture(t, nil)

	all := f.mustExec(t, "COMMAND")
	require.Len(t, all.Array, len(f.svc.Commands()))
	require.EqualValues(t, len(all.Array), f.mustExec(t, "COMMAND", "COUNT").Int)

	info := f.mustExec(t, "COMMAND", "INFO", "list_extend.filter", "nope")
	require.Len(t, info.Array, 2)
	filter := info.Array[0].Array
	require.Equal(t, "list_extend.filter", string(filter[0].Bulk))
	require.EqualValues(t, 5, filter[1].Int)
	require.Equal(t, []command.Reply{command.Status("write"), command.Status("deny-oom")}, filter[2].Array)
	require.EqualValues(t, 1, filter[3].Int)
	require.EqualValues(t, 2, filter[4].Int)
	require.EqualValues(t, 1, filter[5].Int)
	require.Equal(t, command.KindNil, info.Array[1].Kind)

	keys := f.mustExec(t, "COMMAND", "GETKEYS", "DEL", "a", "b", "c")
	require.Equal(t, command.BulkArray([][]byte{[]byte("a"), []byte("b"), []byte("c")}), keys)
	keys = f.mustExec(t, "COMMAND", "GETKEYS", "LIST_EXTEND.FILTER", "src", "dst", "1", "2")
	require.Equal(t, command.BulkArray([][]byte{[]byte("src"), []byte("dst")}), keys)

	_, err := f.exec(t, "COMMAND", "GETKEYS", "LIST_EXTEND.FILTER", "src")
	require.ErrorIs(t, err, command.ErrArity)
	_, err = f.exec(t, "COMMAND", "GETKEYS", "NOPE", "x")
	require.ErrorIs(t, err, command.ErrUnknownCommand)
	_, err = f.exec(t, "COMMAND", "BOGUS")
	require.ErrorIs(t, err, command.ErrSyntax)
}
