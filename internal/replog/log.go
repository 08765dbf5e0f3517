package replog

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	"github.com/rzbill/listx/pkg/id"
)

// ErrEmptyCommand is returned when appending an entry without arguments.
var ErrEmptyCommand = errors.New("replog: empty command")

// Entry is one propagated command.
type Entry struct {
	Seq       uint64
	ID        id.ID
	Namespace string
	Argv      [][]byte
}

// Log is the append-only replication log.
type Log struct {
	db  *pebblestore.DB
	ids *id.Generator

	mu       sync.Mutex
	lastSeq  uint64
	notifyCh chan struct{}
}

// Open initializes a Log and loads the last sequence from metadata (if any).
func Open(db *pebblestore.DB) (*Log, error) {
	l := &Log{db: db, ids: id.NewGenerator(), notifyCh: make(chan struct{})}
	meta, err := db.Get(metaKey)
	switch {
	case err == nil && len(meta) >= 8:
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	case err != nil && !errors.Is(err, pebblestore.ErrNotFound):
		return nil, err
	}
	return l, nil
}

// Append records argv for namespace in its own batch and returns its
// sequence number.
func (l *Log) Append(ctx context.Context, namespace string, argv [][]byte) (uint64, error) {
	b := l.db.NewBatch()
	defer b.Close()
	seq, done, err := l.Stage(b, namespace, argv)
	if err != nil {
		return 0, err
	}
	err = l.db.CommitBatch(ctx, b)
	done(err == nil)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Stage writes the entry for argv into b, which the caller commits together
// with the writes it describes. The log stays locked until done is called,
// so entries are numbered in commit order; done(false) releases the
// sequence number when b was not committed.
func (l *Log) Stage(b *pebble.Batch, namespace string, argv [][]byte) (seq uint64, done func(committed bool), err error) {
	if len(argv) == 0 {
		return 0, nil, ErrEmptyCommand
	}
	l.mu.Lock()
	seq = l.lastSeq + 1
	val := EncodeRecord(encodeHeader(l.ids.Next(), namespace), encodeArgv(argv))
	if err := b.Set(KeyEntry(seq), val, nil); err != nil {
		l.mu.Unlock()
		return 0, nil, err
	}
	if err := b.Set(metaKey, appendBE8(nil, seq), nil); err != nil {
		l.mu.Unlock()
		return 0, nil, err
	}
	return seq, func(committed bool) {
		if committed {
			l.lastSeq = seq
			// notify waiters
			close(l.notifyCh)
			l.notifyCh = make(chan struct{})
		}
		l.mu.Unlock()
	}, nil
}

// LastSeq returns the sequence of the newest entry, 0 when empty.
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}

// WaitForAppend blocks until either a new append occurs or timeout elapses.
// It returns true if woken by an append, false on timeout.
func (l *Log) WaitForAppend(timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.notifyCh
	l.mu.Unlock()
	if timeout <= 0 {
		<-ch
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// ReadOptions selects a forward window of the log.
type ReadOptions struct {
	From  uint64 // first sequence to return; 0 starts at the oldest entry
	Limit int    // 0 means no limit
}

// Read returns up to Limit entries starting at From (inclusive) and the
// sequence to resume from; next is 0 when the log was read to the end.
func (l *Log) Read(opts ReadOptions) (entries []Entry, next uint64, err error) {
	upper := append([]byte(nil), entryPrefix...)
	upper[len(upper)-1]++
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: entryPrefix, UpperBound: upper})
	if err != nil {
		return nil, 0, err
	}
	defer iter.Close()

	entries = make([]Entry, 0, max(1, opts.Limit))
	for ok := iter.SeekGE(KeyEntry(opts.From)); ok; ok = iter.Next() {
		seq := seqFromKey(iter.Key())
		if opts.Limit > 0 && len(entries) == opts.Limit {
			return entries, seq, nil
		}
		e, decoded := decodeEntry(seq, iter.Value())
		if !decoded {
			continue
		}
		entries = append(entries, e)
	}
	return entries, 0, iter.Error()
}

func decodeEntry(seq uint64, raw []byte) (Entry, bool) {
	header, payload, ok := DecodeRecord(raw)
	if !ok {
		return Entry{}, false
	}
	entryID, ns, ok := decodeHeader(header)
	if !ok {
		return Entry{}, false
	}
	argv, ok := decodeArgv(payload)
	if !ok {
		return Entry{}, false
	}
	return Entry{Seq: seq, ID: entryID, Namespace: ns, Argv: argv}, true
}

// TrimToMaxEntries deletes the oldest entries so that at most keep remain.
// Returns the number of deleted entries.
func (l *Log) TrimToMaxEntries(ctx context.Context, keep uint64) (int, error) {
	last := l.LastSeq()
	if keep == 0 || last <= keep {
		return 0, nil
	}
	cutoff := last - keep + 1
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(KeyEntry(0), KeyEntry(cutoff), nil); err != nil {
		return 0, err
	}
	// count what existed below cutoff for the caller
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: KeyEntry(0), UpperBound: KeyEntry(cutoff)})
	if err != nil {
		return 0, err
	}
	n := 0
	for ok := iter.First(); ok; ok = iter.Next() {
		n++
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return n, l.db.CommitBatch(ctx, b)
}
