package commands

import (
	"sort"
)

// BuiltinKind classifies the first word of a command.
type BuiltinKind int

const (
	// BuiltinNone means the word isn't a builtin and names a program.
	BuiltinNone BuiltinKind = iota
	BuiltinChangeDirectory
	BuiltinHelp
	BuiltinExit
)

func (k BuiltinKind) String() string {
	switch k {
	case BuiltinChangeDirectory:
		return "cd"
	case BuiltinHelp:
		return "help"
	case BuiltinExit:
		return "exit"
	default:
		return "none"
	}
}

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinEntry describes a registered builtin.
type BuiltinEntry struct {
	Name string
	Kind BuiltinKind
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description.
	Short string

	Builtin ShellBuiltin
}

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]BuiltinEntry)

func mustAddBuiltin(entry BuiltinEntry) {
	if _, ok := AllBuiltins[entry.Name]; ok {
		panic("builtin registered twice: " + entry.Name)
	}
	AllBuiltins[entry.Name] = entry
}

// Classify returns the kind of builtin name refers to. The shell runs a
// program whenever it returns BuiltinNone.
func Classify(name string) BuiltinKind {
	if entry, ok := AllBuiltins[name]; ok {
		return entry.Kind
	}
	return BuiltinNone
}

// ListBuiltins returns the registered builtins in help order.
func ListBuiltins() []BuiltinEntry {
	var out []BuiltinEntry
	for _, entry := range AllBuiltins {
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})

	return out
}
