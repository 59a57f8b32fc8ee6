package commands

import (
	"fmt"

	"github.com/josephlewis42/simpleshell/core/vos"
)

// Cd is the cd shell builtin. Without an argument it changes to $HOME, extra
// arguments are ignored.
func Cd(s *Shell, args []string) int {
	var dir string
	if len(args) > 1 {
		dir = args[1]
	} else {
		home, ok := s.VirtualOS.LookupEnv(vos.EnvHome)
		if !ok || home == "" {
			s.printError("Error: HOME is not set")
			return 1
		}
		dir = home
	}

	if err := s.VirtualOS.Chdir(dir); err != nil {
		s.Log.Printf("cd %q: %v", dir, err)
		s.printError(fmt.Sprintf("Error: Could not change to directory '%s'", dir))
		return 1
	}
	return 0
}

func init() {
	mustAddBuiltin(BuiltinEntry{
		Name:    "cd",
		Kind:    BuiltinChangeDirectory,
		Use:     "cd [directory]",
		Short:   "Change to the specified directory",
		Builtin: ShellBuiltinFunc(Cd),
	})
}
