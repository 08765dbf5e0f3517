// Package liststore keeps list and string values in Pebble, partitioned by
// namespace. Every command runs inside a Tx backed by an indexed batch, so
// reads observe the command's own writes and a failed command leaves no
// trace. Tx implements listext.Keyspace.
package liststore
