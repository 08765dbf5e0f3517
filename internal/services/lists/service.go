package lists

import (
	"context"
	"errors"
	"fmt"

	"github.com/rzbill/listx/internal/command"
	"github.com/rzbill/listx/internal/listext"
	"github.com/rzbill/listx/internal/liststore"
	"github.com/rzbill/listx/internal/runtime"
	logpkg "github.com/rzbill/listx/pkg/log"
)

// Service executes list commands for one runtime.
type Service struct {
	rt         *runtime.Runtime
	logger     logpkg.Logger
	dispatcher *command.Dispatcher
}

// New creates a list service with an info-level logger.
func New(rt *runtime.Runtime) (*Service, error) {
	return NewWithLogger(rt, nil)
}

// NewWithLogger creates a list service with a custom logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) (*Service, error) {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	logger = logger.With(logpkg.Component("lists"))
	s := &Service{rt: rt, logger: logger}

	reg := command.NewRegistry()
	for _, spec := range s.specs() {
		if err := reg.Register(spec); err != nil {
			return nil, err
		}
	}
	s.dispatcher = command.NewDispatcher(command.DispatcherOptions{
		Registry:   reg,
		OverMemory: rt.OverMemoryBudget,
		Observer:   rt.Metrics(),
		Logger:     logger,
	})
	return s, nil
}

// Commands lists the registered command specs.
func (s *Service) Commands() []command.Spec { return s.dispatcher.Registry().Specs() }

// Execute runs argv in namespace ns (empty selects the default namespace).
func (s *Service) Execute(ctx context.Context, ns string, argv [][]byte) (command.Reply, error) {
	meta, err := s.rt.Namespace(ns)
	if err != nil {
		return command.Reply{}, err
	}
	return s.dispatcher.Execute(ctx, meta.Name, argv)
}

// Filter runs LIST_EXTEND.FILTER and returns the number of elements copied.
func (s *Service) Filter(ctx context.Context, ns, src, dst, lower, upper string) (int64, error) {
	reply, err := s.Execute(ctx, ns, [][]byte{
		[]byte(cmdFilter), []byte(src), []byte(dst), []byte(lower), []byte(upper),
	})
	if err != nil {
		return 0, err
	}
	return reply.Int, nil
}

func (s *Service) update(ctx context.Context, call *command.Call, fn func(tx *liststore.Tx) (command.Reply, error)) (command.Reply, error) {
	meta, err := s.rt.Namespace(call.Namespace)
	if err != nil {
		return command.Reply{}, err
	}
	var reply command.Reply
	err = s.rt.Store().Update(ctx, meta.Name, meta.Limits(), func(tx *liststore.Tx) error {
		var ferr error
		if reply, ferr = fn(tx); ferr != nil {
			return ferr
		}
		if call.Replicated() {
			return tx.Replicate(call.Argv)
		}
		return nil
	})
	if err != nil {
		return command.Reply{}, mapStoreError(err)
	}
	return reply, nil
}

func (s *Service) view(ctx context.Context, call *command.Call, fn func(tx *liststore.Tx) (command.Reply, error)) (command.Reply, error) {
	var reply command.Reply
	err := s.rt.Store().View(ctx, call.Namespace, func(tx *liststore.Tx) error {
		var ferr error
		reply, ferr = fn(tx)
		return ferr
	})
	if err != nil {
		return command.Reply{}, mapStoreError(err)
	}
	return reply, nil
}

// mapStoreError turns limit violations from primitive commands into storage
// write errors so every command reports them the same way.
func mapStoreError(err error) error {
	if errors.Is(err, liststore.ErrLimitExceeded) && !errors.Is(err, listext.ErrStorageWrite) {
		return fmt.Errorf("%w: %w", listext.ErrStorageWrite, err)
	}
	return err
}
