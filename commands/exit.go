package commands

import "fmt"

// Exit quits the shell. Arguments are ignored and background processes are
// left running.
func Exit(s *Shell, args []string) int {
	if farewell := s.Config.Farewell; farewell != "" {
		fmt.Fprintln(s.VirtualOS.Stdout(), farewell)
	}
	s.Quit = true
	return 0
}

func init() {
	mustAddBuiltin(BuiltinEntry{
		Name:    "exit",
		Kind:    BuiltinExit,
		Use:     "exit",
		Short:   "Exit the shell",
		Builtin: ShellBuiltinFunc(Exit),
	})
}
