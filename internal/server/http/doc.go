// Package httpserver provides a minimal REST gateway for listx: JSON
// endpoints for commands, the typed filter call, namespaces, a
// replication log feed, health, and Prometheus metrics.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s, _ := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
