package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCommand matches UnknownCommandError.
	ErrUnknownCommand = errors.New("ERR unknown command")
	// ErrArity matches ArityError.
	ErrArity = errors.New("ERR wrong number of arguments")
	// ErrOOM is returned for deny-oom commands while over the data budget.
	ErrOOM = errors.New("OOM command not allowed when used memory > 'maxmemory'.")
	// ErrSyntax is returned for malformed arguments.
	ErrSyntax = errors.New("ERR syntax error")
	// ErrNotInteger is returned when an integer argument does not parse.
	ErrNotInteger = errors.New("ERR value is not an integer or out of range")
)

// UnknownCommandError names a command missing from the registry.
type UnknownCommandError struct{ Name string }

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("ERR unknown command '%s'", e.Name)
}

func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

// ArityError reports a call with the wrong number of arguments.
type ArityError struct{ Name string }

func (e *ArityError) Error() string {
	return fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(e.Name))
}

func (e *ArityError) Is(target error) bool { return target == ErrArity }
