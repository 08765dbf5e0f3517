// Package command describes server commands and dispatches them.
//
// A Spec carries the registration metadata of one command: its name, arity
// (positive for an exact count including the name, negative for a minimum),
// flags such as write or deny-oom, and which arguments are keys. The
// Dispatcher looks commands up in a Registry, enforces arity and the
// deny-oom guard before the handler runs, and records metrics. A handler
// marks a call for verbatim replication with Call.ReplicateVerbatim; the
// write path that runs it journals the argv in the same commit.
package command
