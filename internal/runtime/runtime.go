package runtime

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	cfgpkg "github.com/rzbill/listx/internal/config"
	"github.com/rzbill/listx/internal/liststore"
	"github.com/rzbill/listx/internal/metrics"
	"github.com/rzbill/listx/internal/namespace"
	"github.com/rzbill/listx/internal/replog"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
	logpkg "github.com/rzbill/listx/pkg/log"
)

var (
	// ErrInvalidNamespace is returned for names rejected by NamespaceNameRegex.
	ErrInvalidNamespace = errors.New("ERR invalid namespace name")
	// ErrNamespaceNotFound is returned when auto-creation is disabled.
	ErrNamespaceNotFound = errors.New("ERR namespace does not exist")
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        logpkg.Logger
	// Metrics is created when nil.
	Metrics *metrics.Metrics
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	store   *liststore.Store
	repl    *replog.Log
	metrics *metrics.Metrics
	config  cfgpkg.Config
	logger  logpkg.Logger
	nsRe    *regexp.Regexp

	mu         sync.RWMutex
	namespaces map[string]namespace.Meta
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg.DefaultNamespaceName == "" {
		cfg = cfgpkg.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	logger = logger.WithComponent("runtime")
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       m,
	})
	if err != nil {
		return nil, err
	}
	repl, err := replog.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open replication log: %w", err)
	}
	var storeOpts []liststore.Option
	if cfg.Replication.Enabled {
		storeOpts = append(storeOpts, liststore.WithJournal(repl))
	}
	rt := &Runtime{
		db:         db,
		store:      liststore.New(db, storeOpts...),
		repl:       repl,
		metrics:    m,
		config:     cfg,
		logger:     logger,
		nsRe:       regexp.MustCompile("^(?:" + cfg.NamespaceNameRegex + ")$"),
		namespaces: make(map[string]namespace.Meta),
	}
	if err := rt.registerGauges(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := rt.EnsureNamespace(cfg.DefaultNamespaceName); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("runtime opened",
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Uint64("replication_seq", repl.LastSeq()))
	return rt, nil
}

func (r *Runtime) registerGauges() error {
	if err := r.metrics.RegisterGauge("disk_usage_bytes", "Estimated on-disk size of the store.", func() float64 {
		if r.db.Closed() {
			return 0
		}
		return float64(r.db.DiskUsage())
	}); err != nil {
		return err
	}
	return r.metrics.RegisterGauge("replication_last_seq", "Sequence of the newest replication log entry.", func() float64 {
		return float64(r.repl.LastSeq())
	})
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil || r.db.Closed() {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db == nil || r.db.Closed() {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

func (r *Runtime) namespaceTemplate() namespace.Meta {
	m := namespace.Defaults()
	m.MaxListLength = r.config.NamespaceDefaults.MaxListLength
	m.MaxElementBytes = r.config.NamespaceDefaults.MaxElementBytes
	return m
}

// EnsureNamespace creates a namespace record if absent.
func (r *Runtime) EnsureNamespace(name string) (namespace.Meta, error) {
	if !r.nsRe.MatchString(name) {
		return namespace.Meta{}, fmt.Errorf("%w: %q", ErrInvalidNamespace, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.namespaces[name]; ok {
		return m, nil
	}
	m, err := namespace.EnsureNamespace(r.db, name, r.namespaceTemplate())
	if err != nil {
		return namespace.Meta{}, err
	}
	r.namespaces[name] = m
	return m, nil
}

// Namespace resolves name (empty means the default namespace), creating it
// when AllowAutoCreateNamespaces is set.
func (r *Runtime) Namespace(name string) (namespace.Meta, error) {
	if name == "" {
		name = r.config.DefaultNamespaceName
	}
	r.mu.RLock()
	m, ok := r.namespaces[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	if !r.nsRe.MatchString(name) {
		return namespace.Meta{}, fmt.Errorf("%w: %q", ErrInvalidNamespace, name)
	}
	m, err := namespace.Get(r.db, name)
	switch {
	case err == nil:
		r.mu.Lock()
		r.namespaces[name] = m
		r.mu.Unlock()
		return m, nil
	case !errors.Is(err, namespace.ErrNotFound):
		return namespace.Meta{}, err
	case r.config.AllowAutoCreateNamespaces:
		return r.EnsureNamespace(name)
	default:
		return namespace.Meta{}, fmt.Errorf("%w: %q", ErrNamespaceNotFound, name)
	}
}

// Namespaces lists every namespace.
func (r *Runtime) Namespaces() ([]namespace.Meta, error) { return namespace.List(r.db) }

// OverMemoryBudget reports whether the store has reached MaxDataBytes.
func (r *Runtime) OverMemoryBudget() bool {
	max := r.config.MaxDataBytes
	return max > 0 && !r.db.Closed() && r.db.DiskUsage() >= uint64(max)
}

// TrimReplication applies Replication.MaxEntries to the replication log.
func (r *Runtime) TrimReplication(ctx context.Context) (int, error) {
	n, err := r.repl.TrimToMaxEntries(ctx, r.config.Replication.MaxEntries)
	if n > 0 {
		r.logger.Debug("replication log trimmed", logpkg.Int("entries", n))
	}
	return n, err
}

// Store returns the list store.
func (r *Runtime) Store() *liststore.Store { return r.store }

// ReplicationLog returns the replication log.
func (r *Runtime) ReplicationLog() *replog.Log { return r.repl }

// Metrics returns the metrics registry of this runtime.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
