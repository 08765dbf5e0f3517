package command

import (
	"fmt"
	"strings"
)

// Flags is a bit set of command properties.
type Flags uint32

const (
	// FlagWrite marks commands that may modify the keyspace.
	FlagWrite Flags = 1 << iota
	// FlagReadOnly marks commands that never modify the keyspace.
	FlagReadOnly
	// FlagDenyOOM rejects the command while the server is over its data budget.
	FlagDenyOOM
	// FlagFast marks O(1) or O(log N) commands.
	FlagFast
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagWrite, "write"},
	{FlagReadOnly, "readonly"},
	{FlagDenyOOM, "deny-oom"},
	{FlagFast, "fast"},
}

// ParseFlags parses a space separated flag list such as "write deny-oom".
func ParseFlags(s string) (Flags, error) {
	var f Flags
next:
	for _, tok := range strings.Fields(s) {
		for _, fn := range flagNames {
			if strings.EqualFold(tok, fn.name) {
				f |= fn.flag
				continue next
			}
		}
		return 0, fmt.Errorf("command: unknown flag %q", tok)
	}
	if f.Has(FlagWrite) && f.Has(FlagReadOnly) {
		return 0, fmt.Errorf("command: flags %q combine write and readonly", s)
	}
	return f, nil
}

// MustParseFlags is ParseFlags for static tables.
func MustParseFlags(s string) Flags {
	f, err := ParseFlags(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Has reports whether every bit of x is set.
func (f Flags) Has(x Flags) bool { return f&x == x }

func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, " ")
}
