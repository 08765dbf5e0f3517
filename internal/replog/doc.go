// Package replog is the replication log: an append-only record of every
// write command that asked for verbatim propagation.
//
// # Overview
//
// Entries are persisted in Pebble under a single global sequence so that a
// replica replaying them in order reproduces the primary's keyspace:
//   - repl/m              (metadata: lastSeq)
//   - repl/e/{seq_be8}    (entries)
//
// Records are stored as: uvarint headerLen | header | payload | crc32c(header|payload).
// The header carries the entry ID (pkg/id) followed by the namespace; the
// payload carries the argv as uvarint-prefixed strings.
//
// API surface (internal)
//
//	l, _ := Open(db)
//	seq, _ := l.Append(ctx, "default", argv)
//	seq, done, _ := l.Stage(batch, "default", argv) // commit batch, then done(ok)
//	entries, next, _ := l.Read(ReadOptions{From: 1, Limit: 100})
//	l.WaitForAppend(time.Second)
package replog
