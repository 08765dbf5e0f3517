package liststore

import (
	"context"
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/rzbill/listx/internal/listext"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
)

var (
	// ErrWrongType is returned when a list operation meets a string key.
	ErrWrongType = listext.ErrWrongType
	// ErrLimitExceeded is returned when a write would break a namespace limit.
	ErrLimitExceeded = errors.New("list store limit exceeded")
	// ErrReadOnly is returned when writing through a read-only Tx or handle.
	ErrReadOnly = errors.New("write attempted in read-only transaction")
)

// Limits bound what a single write may store. Zero values disable a limit.
type Limits struct {
	MaxListLength   int64
	MaxElementBytes int
}

// Journal records a committed write in the batch that carries it.
// replog.Log implements it.
type Journal interface {
	Stage(b *pebble.Batch, namespace string, argv [][]byte) (seq uint64, done func(committed bool), err error)
}

// Option configures a Store.
type Option func(*Store)

// WithJournal records every Update that calls Tx.Replicate in j.
func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

// Store is the Pebble-backed keyspace holding lists and strings.
type Store struct {
	db      *pebblestore.DB
	journal Journal
	// Updates are serialised; Views share the lock so they never observe a
	// half-applied command.
	mu sync.RWMutex
}

// New wraps db.
func New(db *pebblestore.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Update runs fn in a read-write transaction scoped to namespace ns. All
// writes made by fn, and the journal entry it asked for, are committed
// atomically when it returns nil and discarded otherwise.
func (s *Store) Update(ctx context.Context, ns string, limits Limits, fn func(tx *Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewIndexedBatch()
	defer b.Close()
	tx := &Tx{batch: b, ns: ns, limits: limits, writable: true}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.replicate != nil && s.journal != nil {
		var done func(bool)
		if _, done, err = s.journal.Stage(b, ns, tx.replicate); err != nil {
			return err
		}
		defer func() { done(err == nil) }()
	}
	if b.Empty() {
		return nil
	}
	return s.db.CommitBatch(ctx, b)
}

// View runs fn in a read-only transaction scoped to namespace ns. No Update
// commits while fn runs.
func (s *Store) View(ctx context.Context, ns string, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.db.NewIndexedBatch()
	defer b.Close()
	return fn(&Tx{batch: b, ns: ns})
}
