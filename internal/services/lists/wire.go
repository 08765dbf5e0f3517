package lists

import (
	"context"
	"errors"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"github.com/rzbill/listx/internal/command"
	"github.com/rzbill/listx/internal/listext"
	"github.com/rzbill/listx/internal/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReplyValue encodes a reply in the listx.v1 wire form.
func ReplyValue(r command.Reply) *structpb.Value {
	switch r.Kind {
	case command.KindStatus:
		return listxv1.StatusValue(r.Status)
	case command.KindInteger:
		return listxv1.IntegerValue(r.Int)
	case command.KindBulk:
		return listxv1.BulkValue(r.Bulk)
	case command.KindArray:
		items := make([]*structpb.Value, len(r.Array))
		for i, item := range r.Array {
			items[i] = ReplyValue(item)
		}
		return listxv1.ListOf(items...)
	default:
		return listxv1.NilValue()
	}
}

// ErrorCode classifies a command error for transports.
func ErrorCode(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, command.ErrUnknownCommand):
		return codes.Unimplemented
	case errors.Is(err, command.ErrArity),
		errors.Is(err, command.ErrSyntax),
		errors.Is(err, command.ErrNotInteger),
		errors.Is(err, ErrInvalidExpression),
		errors.Is(err, runtime.ErrInvalidNamespace),
		errors.Is(err, listxv1.ErrBadRequest):
		return codes.InvalidArgument
	case errors.Is(err, runtime.ErrNamespaceNotFound):
		return codes.NotFound
	case errors.Is(err, listext.ErrWrongType):
		return codes.FailedPrecondition
	case errors.Is(err, command.ErrOOM):
		return codes.ResourceExhausted
	case errors.Is(err, listext.ErrStorageWrite):
		return codes.Aborted
	default:
		return codes.Internal
	}
}
