package listxv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	CommandService_ServiceName            = "listx.v1.CommandService"
	CommandService_Execute_FullMethodName = "/listx.v1.CommandService/Execute"
)

// CommandServiceClient is the client API for CommandService.
type CommandServiceClient interface {
	Execute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error)
}

type commandServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCommandServiceClient(cc grpc.ClientConnInterface) CommandServiceClient {
	return &commandServiceClient{cc}
}

func (c *commandServiceClient) Execute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, CommandService_Execute_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CommandServiceServer is the server API for CommandService.
type CommandServiceServer interface {
	Execute(context.Context, *structpb.Struct) (*structpb.Value, error)
}

// UnimplementedCommandServiceServer can be embedded for forward compatibility.
type UnimplementedCommandServiceServer struct{}

func (UnimplementedCommandServiceServer) Execute(context.Context, *structpb.Struct) (*structpb.Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Execute not implemented")
}

func RegisterCommandServiceServer(s grpc.ServiceRegistrar, srv CommandServiceServer) {
	s.RegisterService(&CommandService_ServiceDesc, srv)
}

func _CommandService_Execute_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServiceServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CommandService_Execute_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).Execute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// CommandService_ServiceDesc is the grpc.ServiceDesc for CommandService.
var CommandService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CommandService_ServiceName,
	HandlerType: (*CommandServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    _CommandService_Execute_Handler,
		},
	},
	// No .proto file backs this service; messages are well-known types.
	Streams: []grpc.StreamDesc{},
}
