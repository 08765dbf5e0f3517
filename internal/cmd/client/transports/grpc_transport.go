package transports

import (
	"context"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// GrpcTransport implements CommandTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withConn(ctx context.Context, fn func(conn *grpc.ClientConn) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(conn)
}

// Execute sends a command via gRPC.
func (t *GrpcTransport) Execute(ctx context.Context, ns string, args []string) (*structpb.Value, error) {
	req, err := listxv1.NewExecuteRequest(ns, args)
	if err != nil {
		return nil, err
	}
	var out *structpb.Value
	err = t.withConn(ctx, func(conn *grpc.ClientConn) error {
		var err error
		out, err = listxv1.NewCommandServiceClient(conn).Execute(ctx, req)
		return err
	})
	return out, err
}

// Health queries the standard gRPC health service.
func (t *GrpcTransport) Health(ctx context.Context) (string, error) {
	var status string
	err := t.withConn(ctx, func(conn *grpc.ClientConn) error {
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		if err != nil {
			return err
		}
		status = resp.GetStatus().String()
		return nil
	})
	return status, err
}
