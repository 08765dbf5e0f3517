package grpcserver

import (
	"context"
	"net"
	"time"

	listxv1 "github.com/rzbill/listx/api/listx/v1"
	"github.com/rzbill/listx/internal/runtime"
	"github.com/rzbill/listx/internal/services/lists"
	logpkg "github.com/rzbill/listx/pkg/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	svc    *lists.Service
	grpc   *grpc.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New constructs a gRPC server and registers services.
func New(rt *runtime.Runtime, opts ...grpc.ServerOption) (*Server, error) {
	logger := rt.Logger().WithComponent("grpc")
	svc, err := lists.NewWithLogger(rt, rt.Logger())
	if err != nil {
		return nil, err
	}
	s := &Server{rt: rt, svc: svc, logger: logger}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.logUnary)}, opts...)
	s.grpc = grpc.NewServer(opts...)
	grpc_health_v1.RegisterHealthServer(s.grpc, &healthSvc{rt: rt})
	listxv1.RegisterCommandServiceServer(s.grpc, &commandSvc{svc: svc})
	return s, nil
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("rpc",
		logpkg.Str("method", info.FullMethod),
		logpkg.Str("code", status.Code(err).String()),
		logpkg.Duration("elapsed", time.Since(start)))
	return resp, err
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
