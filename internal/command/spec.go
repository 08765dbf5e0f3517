package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler executes a validated call.
type Handler func(ctx context.Context, call *Call) (Reply, error)

// Spec is the registration record of one command.
type Spec struct {
	Name  string
	Arity int
	Flags Flags
	// FirstKey, LastKey and KeyStep locate key arguments in argv. LastKey
	// may be negative to count from the end. FirstKey 0 means no keys.
	FirstKey int
	LastKey  int
	KeyStep  int
	Handler  Handler
}

// CheckArity reports whether argc (including the command name) is acceptable.
func (s Spec) CheckArity(argc int) bool {
	if s.Arity >= 0 {
		return argc == s.Arity
	}
	return argc >= -s.Arity
}

// Keys returns the key arguments of argv.
func (s Spec) Keys(argv [][]byte) [][]byte {
	if s.FirstKey <= 0 || s.FirstKey >= len(argv) {
		return nil
	}
	last := s.LastKey
	if last < 0 {
		last += len(argv)
	}
	if last >= len(argv) {
		last = len(argv) - 1
	}
	step := s.KeyStep
	if step <= 0 {
		step = 1
	}
	var keys [][]byte
	for i := s.FirstKey; i <= last; i += step {
		keys = append(keys, argv[i])
	}
	return keys
}

// Call is one invocation handed to a Handler.
type Call struct {
	Namespace string
	Argv      [][]byte
	replicate bool
}

// Arg returns argv[i] as a string.
func (c *Call) Arg(i int) string { return string(c.Argv[i]) }

// ReplicateVerbatim asks for the call to be journaled unchanged together with
// the writes it made.
func (c *Call) ReplicateVerbatim() { c.replicate = true }

// Replicated reports whether ReplicateVerbatim was called.
func (c *Call) Replicated() bool { return c.replicate }

// Registry maps upper-cased command names to their Spec.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{specs: make(map[string]Spec)} }

// Register adds spec. Names are case-insensitive and must be unique.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" || spec.Arity == 0 || spec.Handler == nil {
		return fmt.Errorf("command: invalid spec %q", spec.Name)
	}
	name := strings.ToUpper(spec.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.specs[name]; dup {
		return fmt.Errorf("command: %q already registered", name)
	}
	spec.Name = name
	r.specs[name] = spec
	return nil
}

// Lookup finds a command by name, ignoring case.
func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[strings.ToUpper(name)]
	return s, ok
}

// Specs lists the registered commands sorted by name.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
