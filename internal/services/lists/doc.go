// Package lists registers the list commands (LIST_EXTEND.FILTER,
// LIST_EXTEND.WHERE and the LPUSH/LRANGE family) and executes them against
// the runtime's list store through a command.Dispatcher.
//
// Each write command runs in a single store transaction, so a command that
// fails halfway leaves every list as it was.
package lists
