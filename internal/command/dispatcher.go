package command

import (
	"context"
	"time"

	"github.com/rzbill/listx/pkg/log"
)

// Observer records command outcomes.
type Observer interface {
	ObserveCommand(name, status string, elapsed time.Duration)
}

// DispatcherOptions wires a Dispatcher.
type DispatcherOptions struct {
	Registry *Registry
	// OverMemory reports whether deny-oom commands must be refused.
	OverMemory func() bool
	Observer   Observer
	Logger     log.Logger
}

// Dispatcher validates and runs calls.
type Dispatcher struct {
	registry   *Registry
	overMemory func() bool
	observer   Observer
	logger     log.Logger
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		registry:   opts.Registry,
		overMemory: opts.OverMemory,
		observer:   opts.Observer,
		logger:     opts.Logger,
	}
	if d.registry == nil {
		d.registry = NewRegistry()
	}
	if d.logger == nil {
		d.logger = log.NewNopLogger()
	}
	d.logger = d.logger.With(log.Component("dispatcher"))
	return d
}

// Registry returns the registry commands are resolved against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Execute runs argv (command name first) in namespace ns.
func (d *Dispatcher) Execute(ctx context.Context, ns string, argv [][]byte) (reply Reply, err error) {
	if len(argv) == 0 {
		return Reply{}, &UnknownCommandError{}
	}
	name := string(argv[0])
	spec, ok := d.registry.Lookup(name)
	if !ok {
		d.observe("unknown", "error", 0)
		return Reply{}, &UnknownCommandError{Name: name}
	}
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		d.observe(spec.Name, status, time.Since(start))
	}()

	if !spec.CheckArity(len(argv)) {
		return Reply{}, &ArityError{Name: spec.Name}
	}
	if spec.Flags.Has(FlagDenyOOM) && d.overMemory != nil && d.overMemory() {
		return Reply{}, ErrOOM
	}
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}

	call := &Call{Namespace: ns, Argv: argv}
	reply, err = spec.Handler(ctx, call)
	if err != nil {
		d.logger.Debug("command failed",
			log.Str(log.CommandKey, spec.Name),
			log.Str("namespace", ns),
			log.Err(err))
		return Reply{}, err
	}
	return reply, nil
}

func (d *Dispatcher) observe(name, status string, elapsed time.Duration) {
	if d.observer != nil {
		d.observer.ObserveCommand(name, status, elapsed)
	}
}
