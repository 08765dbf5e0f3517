// Package pebblestore is a thin wrapper around Pebble adding an fsync policy,
// indexed batches for read-your-writes transactions, and metrics hooks.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewIndexedBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	v, closer, _ := b.Get([]byte("k")) // sees the pending write
//	closer.Close()
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
package pebblestore
