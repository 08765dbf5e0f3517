package pebblestore

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = pebble.ErrNotFound

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways requests a WAL fsync on each committed batch.
	FsyncModeAlways
	// FsyncModeInterval lets Pebble coalesce WAL syncs within FsyncInterval.
	FsyncModeInterval
	// FsyncModeNever never forces a WAL sync from the application.
	FsyncModeNever
)

// ParseFsyncMode maps always|interval|never to a FsyncMode.
func ParseFsyncMode(s string) (FsyncMode, error) {
	switch s {
	case "always", "":
		return FsyncModeAlways, nil
	case "interval":
		return FsyncModeInterval, nil
	case "never":
		return FsyncModeNever, nil
	default:
		return FsyncModeUnspecified, errors.New("pebble: invalid fsync mode; use always|interval|never")
	}
}

// Options configures the Pebble store wrapper.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning of Pebble. If nil, defaults are used.
	PebbleOptions *pebble.Options
	// Metrics observes read/commit latencies and sizes. Optional.
	Metrics MetricsHook
}

// MetricsHook is a minimal hook surface for storage observations.
type MetricsHook interface {
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// DB wraps a Pebble database instance with fsync policy and basic helpers.
type DB struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

// Open creates or opens a Pebble database with the provided options.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	switch opts.Fsync {
	case FsyncModeAlways, FsyncModeNever:
	case FsyncModeInterval:
		interval := opts.FsyncInterval
		if interval <= 0 {
			interval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return interval }
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &DB{inner: inner, writeSync: opts.Fsync == FsyncModeAlways, metrics: metrics}, nil
}

// Close closes the Pebble database.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	err := db.inner.Close()
	db.inner = nil
	return err
}

// Closed reports whether Close has been called.
func (db *DB) Closed() bool { return db == nil || db.inner == nil }

// NewBatch creates a write-only batch.
func (db *DB) NewBatch() *pebble.Batch {
	return db.inner.NewBatch()
}

// NewIndexedBatch creates a batch whose reads observe its own pending writes
// layered over the committed state.
func (db *DB) NewIndexedBatch() *pebble.Batch {
	return db.inner.NewIndexedBatch()
}

// CommitBatch commits the provided batch with the configured fsync policy.
func (db *DB) CommitBatch(ctx context.Context, b *pebble.Batch) error {
	if b == nil {
		return errors.New("pebble: nil batch")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	ops, size := int(b.Count()), b.Len()
	syncMode := pebble.NoSync
	if db.writeSync {
		syncMode = pebble.Sync
	}
	err := b.Commit(syncMode)
	db.metrics.ObserveBatchCommit(time.Since(start), ops, size)
	return err
}

// Set writes a single key respecting the fsync policy.
func (db *DB) Set(key, value []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Set(key, value, nil); err != nil {
		return err
	}
	return db.CommitBatch(context.Background(), b)
}

// Delete removes a single key respecting the fsync policy.
func (db *DB) Delete(key []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Delete(key, nil); err != nil {
		return err
	}
	return db.CommitBatch(context.Background(), b)
}

// Get returns a copy of the value for key, or ErrNotFound.
func (db *DB) Get(key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := db.inner.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// NewIter creates a raw Pebble iterator with the provided options.
func (db *DB) NewIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	return db.inner.NewIter(opts)
}

// DiskUsage returns the bytes Pebble currently occupies on disk.
func (db *DB) DiskUsage() uint64 {
	return db.inner.Metrics().DiskSpaceUsage()
}

// CompactRange requests compaction of the key range [start, end).
func (db *DB) CompactRange(start, end []byte) error {
	return db.inner.Compact(start, end, true)
}
