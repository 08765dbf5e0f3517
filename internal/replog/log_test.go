package replog

import (
	"context"
	"testing"
	"time"

	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
)

func openDB(t *testing.T, dir string) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	return db
}

func newTestLog(t *testing.T) *Log {
	t.Helper()
	db := openDB(t, t.TempDir())
	t.Cleanup(func() { _ = db.Close() })
	l, err := Open(db)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return l
}

func argv(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestAppendAssignsSequential(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	s1, err := l.Append(ctx, "default", argv("LPUSH", "k", "v"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	s2, err := l.Append(ctx, "default", argv("DEL", "k"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if s1 != 1 || s2 != 2 || l.LastSeq() != 2 {
		t.Fatalf("unexpected seqs %d %d last=%d", s1, s2, l.LastSeq())
	}
}

func TestAppendRejectsEmpty(t *testing.T) {
	l := newTestLog(t)
	if _, err := l.Append(context.Background(), "default", nil); err != ErrEmptyCommand {
		t.Fatalf("want ErrEmptyCommand, got %v", err)
	}
}

func TestReadReturnsEntriesVerbatim(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	cmd := argv("LIST_EXTEND.FILTER", "src", "dst", "-inf", "+inf")
	if _, err := l.Append(ctx, "orders", cmd); err != nil {
		t.Fatalf("append: %v", err)
	}
	entries, next, err := l.Read(ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if next != 0 || len(entries) != 1 {
		t.Fatalf("want 1 entry and no next, got %d next=%d", len(entries), next)
	}
	e := entries[0]
	if e.Seq != 1 || e.Namespace != "orders" || e.ID.TimeMs() == 0 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if len(e.Argv) != len(cmd) {
		t.Fatalf("argv len %d", len(e.Argv))
	}
	for i := range cmd {
		if string(e.Argv[i]) != string(cmd[i]) {
			t.Fatalf("argv[%d] = %q want %q", i, e.Argv[i], cmd[i])
		}
	}
}

func TestReadPaginates(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := l.Append(ctx, "default", argv("PING")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	page, next, err := l.Read(ReadOptions{From: 2, Limit: 2})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(page) != 2 || page[0].Seq != 2 || page[1].Seq != 3 || next != 4 {
		t.Fatalf("unexpected page %+v next=%d", page, next)
	}
	rest, next, err := l.Read(ReadOptions{From: next})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rest) != 2 || rest[1].Seq != 5 || next != 0 {
		t.Fatalf("unexpected rest %+v next=%d", rest, next)
	}
}

func TestAppendDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	db := openDB(t, dir)
	l, err := Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := l.Append(ctx, "default", argv("PING")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db = openDB(t, dir)
	t.Cleanup(func() { _ = db.Close() })
	l, err = Open(db)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if l.LastSeq() != 3 {
		t.Fatalf("lastSeq after reopen = %d", l.LastSeq())
	}
	seq, err := l.Append(ctx, "default", argv("PING"))
	if err != nil || seq != 4 {
		t.Fatalf("append after reopen: seq=%d err=%v", seq, err)
	}
}

func TestWaitForAppend(t *testing.T) {
	l := newTestLog(t)
	if l.WaitForAppend(10 * time.Millisecond) {
		t.Fatalf("expected timeout")
	}
	done := make(chan bool, 1)
	go func() { done <- l.WaitForAppend(5 * time.Second) }()
	time.Sleep(20 * time.Millisecond)
	if _, err := l.Append(context.Background(), "default", argv("PING")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !<-done {
		t.Fatalf("waiter not woken by append")
	}
}

func TestTrimToMaxEntries(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := l.Append(ctx, "default", argv("PING")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	n, err := l.TrimToMaxEntries(ctx, 3)
	if err != nil || n != 7 {
		t.Fatalf("trim: n=%d err=%v", n, err)
	}
	entries, _, err := l.Read(ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 || entries[0].Seq != 8 {
		t.Fatalf("unexpected entries after trim: %+v", entries)
	}
	if n, _ := l.TrimToMaxEntries(ctx, 3); n != 0 {
		t.Fatalf("second trim deleted %d", n)
	}
}

func TestStageAbandonedReleasesSequence(t *testing.T) {
	l := newTestLog(t)
	b := l.db.NewBatch()
	seq, done, err := l.Stage(b, "default", argv("LPUSH", "k", "v"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	_ = b.Close()
	done(false)
	if seq != 1 || l.LastSeq() != 0 {
		t.Fatalf("abandoned stage advanced the log: seq=%d last=%d", seq, l.LastSeq())
	}
	next, err := l.Append(context.Background(), "default", argv("PING"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if next != 1 {
		t.Fatalf("sequence not reused, got %d", next)
	}
	entries, _, err := l.Read(ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 1 || string(entries[0].Argv[0]) != "PING" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestStageCommitsWithCallerBatch(t *testing.T) {
	l := newTestLog(t)
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.Set([]byte("data/k"), []byte("v"), nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, done, err := l.Stage(b, "default", argv("SET", "k", "v"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	err = l.db.CommitBatch(context.Background(), b)
	done(err == nil)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if l.LastSeq() != 1 {
		t.Fatalf("want last seq 1, got %d", l.LastSeq())
	}
	if v, err := l.db.Get([]byte("data/k")); err != nil || string(v) != "v" {
		t.Fatalf("data write missing: %q %v", v, err)
	}
}
