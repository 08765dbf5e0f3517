package grpcserver

import (
	"context"

	"github.com/rzbill/listx/internal/runtime"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type healthSvc struct {
	grpc_health_v1.UnimplementedHealthServer
	rt *runtime.Runtime
}

func (h *healthSvc) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if err := h.rt.CheckHealth(ctx); err != nil {
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}
