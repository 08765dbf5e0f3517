package grpcserver

import (
	"context"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"github.com/rzbill/listx/internal/services/lists"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type commandSvc struct {
	listxv1.UnimplementedCommandServiceServer
	svc *lists.Service
}

func (c *commandSvc) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	ns, argv, err := listxv1.ParseExecuteRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	reply, err := c.svc.Execute(ctx, ns, argv)
	if err != nil {
		return nil, status.Error(lists.ErrorCode(err), err.Error())
	}
	return lists.ReplyValue(reply), nil
}
