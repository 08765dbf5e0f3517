// Package grpcserver hosts the gRPC server for listx, registering the
// standard grpc.health.v1 service and listx.v1.CommandService, which
// delegates to the lists service.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s, _ := grpcserver.New(rt)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
