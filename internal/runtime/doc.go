// Package runtime wires storage, config, and facades into a single-node
// listx instance. It exposes Open/Close, health checks, namespace
// resolution, the deny-oom budget check, and accessors for the list store,
// the replication log, and metrics used by higher-level services.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	meta, _ := rt.Namespace("default")
//	_ = rt.Store().Update(ctx, meta.Name, meta.Limits(), func(tx *liststore.Tx) error {
//		_, err := tx.PushTail("readings", []byte("7"))
//		return err
//	})
package runtime
