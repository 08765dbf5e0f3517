package lists

import (
	"context"
	"strings"

	"github.com/rzbill/listx/internal/command"
	"github.com/rzbill/listx/internal/listext"
	"github.com/rzbill/listx/internal/liststore"
)

const (
	cmdFilter = "LIST_EXTEND.FILTER"
	cmdWhere  = "LIST_EXTEND.WHERE"
)

func (s *Service) specs() []command.Spec {
	return []command.Spec{
		{Name: cmdFilter, Arity: 5, Flags: command.MustParseFlags("write deny-oom"), FirstKey: 1, LastKey: 2, KeyStep: 1, Handler: s.filter},
		{Name: cmdWhere, Arity: 4, Flags: command.MustParseFlags("write deny-oom"), FirstKey: 1, LastKey: 2, KeyStep: 1, Handler: s.where},
		{Name: "LPUSH", Arity: -3, Flags: command.MustParseFlags("write deny-oom fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.push(true)},
		{Name: "RPUSH", Arity: -3, Flags: command.MustParseFlags("write deny-oom fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.push(false)},
		{Name: "LPOP", Arity: 2, Flags: command.MustParseFlags("write fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.pop(true)},
		{Name: "RPOP", Arity: 2, Flags: command.MustParseFlags("write fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.pop(false)},
		{Name: "LLEN", Arity: 2, Flags: command.MustParseFlags("readonly fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.llen},
		{Name: "LRANGE", Arity: 4, Flags: command.MustParseFlags("readonly"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.lrange},
		{Name: "DEL", Arity: -2, Flags: command.MustParseFlags("write"), FirstKey: 1, LastKey: -1, KeyStep: 1, Handler: s.del},
		{Name: "SET", Arity: 3, Flags: command.MustParseFlags("write deny-oom"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.set},
		{Name: "GET", Arity: 2, Flags: command.MustParseFlags("readonly fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.get},
		{Name: "TYPE", Arity: 2, Flags: command.MustParseFlags("readonly fast"), FirstKey: 1, LastKey: 1, KeyStep: 1, Handler: s.typ},
		{Name: "PING", Arity: -1, Flags: command.MustParseFlags("fast"), Handler: s.ping},
		{Name: "COMMAND", Arity: -1, Flags: command.MustParseFlags("readonly"), Handler: s.command},
	}
}

// LIST_EXTEND.FILTER source destination lower upper
func (s *Service) filter(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		n, err := listext.Filter(tx, call.Arg(1), call.Arg(2), call.Arg(3), call.Arg(4))
		if err != nil {
			return command.Reply{}, err
		}
		call.ReplicateVerbatim()
		return command.Integer(n), nil
	})
}

// LIST_EXTEND.WHERE source destination expression
func (s *Service) where(ctx context.Context, call *command.Call) (command.Reply, error) {
	pred, err := newCELPredicate(call.Arg(3))
	if err != nil {
		return command.Reply{}, err
	}
	return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		n, err := listext.Drain(tx, call.Arg(1), call.Arg(2), pred.Predicate())
		if err != nil {
			return command.Reply{}, err
		}
		call.ReplicateVerbatim()
		return command.Integer(n), nil
	})
}

func (s *Service) push(head bool) command.Handler {
	return func(ctx context.Context, call *command.Call) (command.Reply, error) {
		return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
			var (
				n   int64
				err error
			)
			if head {
				n, err = tx.PushHead(call.Arg(1), call.Argv[2:]...)
			} else {
				n, err = tx.PushTail(call.Arg(1), call.Argv[2:]...)
			}
			if err != nil {
				return command.Reply{}, err
			}
			call.ReplicateVerbatim()
			return command.Integer(n), nil
		})
	}
}

func (s *Service) pop(head bool) command.Handler {
	return func(ctx context.Context, call *command.Call) (command.Reply, error) {
		return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
			var (
				v   []byte
				ok  bool
				err error
			)
			if head {
				v, ok, err = tx.PopHead(call.Arg(1))
			} else {
				v, ok, err = tx.PopTail(call.Arg(1))
			}
			if err != nil || !ok {
				return command.Nil(), err
			}
			call.ReplicateVerbatim()
			return command.Bulk(v), nil
		})
	}
}

func (s *Service) llen(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.view(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		n, err := tx.Len(call.Arg(1))
		return command.Integer(n), err
	})
}

func (s *Service) lrange(ctx context.Context, call *command.Call) (command.Reply, error) {
	start, ok := listext.ParseInt(call.Argv[2])
	if !ok {
		return command.Reply{}, command.ErrNotInteger
	}
	stop, ok := listext.ParseInt(call.Argv[3])
	if !ok {
		return command.Reply{}, command.ErrNotInteger
	}
	return s.view(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		elems, err := tx.Range(call.Arg(1), start, stop)
		if err != nil {
			return command.Reply{}, err
		}
		return command.BulkArray(elems), nil
	})
}

func (s *Service) del(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		keys := make([]string, 0, len(call.Argv)-1)
		for _, k := range call.Argv[1:] {
			keys = append(keys, string(k))
		}
		n, err := tx.Delete(keys...)
		if err != nil {
			return command.Reply{}, err
		}
		if n > 0 {
			call.ReplicateVerbatim()
		}
		return command.Integer(n), nil
	})
}

func (s *Service) set(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.update(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		if err := tx.SetString(call.Arg(1), call.Argv[2]); err != nil {
			return command.Reply{}, err
		}
		call.ReplicateVerbatim()
		return command.OK, nil
	})
}

func (s *Service) get(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.view(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		v, ok, err := tx.GetString(call.Arg(1))
		if err != nil || !ok {
			return command.Nil(), err
		}
		return command.Bulk(v), nil
	})
}

func (s *Service) typ(ctx context.Context, call *command.Call) (command.Reply, error) {
	return s.view(ctx, call, func(tx *liststore.Tx) (command.Reply, error) {
		t, err := tx.Type(call.Arg(1))
		return command.Status(t), err
	})
}

func (s *Service) ping(_ context.Context, call *command.Call) (command.Reply, error) {
	switch len(call.Argv) {
	case 1:
		return command.Status("PONG"), nil
	case 2:
		return command.Bulk(call.Argv[1]), nil
	default:
		return command.Reply{}, &command.ArityError{Name: "PING"}
	}
}

// COMMAND [COUNT | INFO name... | GETKEYS command arg...]
func (s *Service) command(_ context.Context, call *command.Call) (command.Reply, error) {
	if len(call.Argv) == 1 {
		specs := s.Commands()
		items := make([]command.Reply, len(specs))
		for i, spec := range specs {
			items[i] = commandInfo(spec)
		}
		return command.Array(items...), nil
	}
	switch strings.ToUpper(call.Arg(1)) {
	case "COUNT":
		if len(call.Argv) != 2 {
			return command.Reply{}, command.ErrSyntax
		}
		return command.Integer(int64(len(s.Commands()))), nil
	case "INFO":
		reg := s.dispatcher.Registry()
		items := make([]command.Reply, 0, len(call.Argv)-2)
		for _, name := range call.Argv[2:] {
			spec, ok := reg.Lookup(string(name))
			if !ok {
				items = append(items, command.Nil())
				continue
			}
			items = append(items, commandInfo(spec))
		}
		return command.Array(items...), nil
	case "GETKEYS":
		if len(call.Argv) < 3 {
			return command.Reply{}, &command.ArityError{Name: "COMMAND|GETKEYS"}
		}
		target := call.Argv[2:]
		spec, ok := s.dispatcher.Registry().Lookup(string(target[0]))
		if !ok {
			return command.Reply{}, &command.UnknownCommandError{Name: string(target[0])}
		}
		if !spec.CheckArity(len(target)) {
			return command.Reply{}, &command.ArityError{Name: spec.Name}
		}
		return command.BulkArray(spec.Keys(target)), nil
	default:
		return command.Reply{}, command.ErrSyntax
	}
}

// commandInfo renders a spec as name, arity, flags, first key, last key, step.
func commandInfo(spec command.Spec) command.Reply {
	flags := strings.Fields(spec.Flags.String())
	fr := make([]command.Reply, len(flags))
	for i, f := range flags {
		fr[i] = command.Status(f)
	}
	return command.Array(
		command.Bulk([]byte(strings.ToLower(spec.Name))),
		command.Integer(int64(spec.Arity)),
		command.Array(fr...),
		command.Integer(int64(spec.FirstKey)),
		command.Integer(int64(spec.LastKey)),
		command.Integer(int64(spec.KeyStep)),
	)
}
