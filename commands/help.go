package commands

import (
	"fmt"
)

const helpLineFormat = "  %-18s - %s\n"

// Help prints a summary of the builtins, or the usage of the named ones.
func Help(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "help [-s] [NAME...]",
		Short: "Display information about builtin commands.",
	}
	synopsis := cmd.Flags().Bool('s', "output only a short usage synopsis for each NAME")

	return cmd.Run(s, args, func() int {
		w := s.VirtualOS.Stdout()
		topics := cmd.Flags().Args()

		if len(topics) == 0 {
			if *synopsis {
				for _, entry := range ListBuiltins() {
					fmt.Fprintf(w, "%s: %s\n", entry.Name, entry.Use)
				}
				return 0
			}

			fmt.Fprintln(w, "SimpleShell - Available commands:")
			for _, entry := range ListBuiltins() {
				fmt.Fprintf(w, helpLineFormat, entry.Use, entry.Short)
			}
			fmt.Fprintf(w, helpLineFormat, "command &", "Run a command in the background")
			fmt.Fprintln(w, "  Any other command will be executed as a program")
			return 0
		}

		ret := 0
		for _, topic := range topics {
			entry, ok := AllBuiltins[topic]
			if !ok {
				fmt.Fprintf(w, "help: no help topics match '%s'\n", topic)
				ret = 1
				continue
			}

			fmt.Fprintf(w, "%s: %s\n", entry.Name, entry.Use)
			if !*synopsis {
				fmt.Fprintf(w, "    %s\n", entry.Short)
			}
		}
		return ret
	})
}

func init() {
	mustAddBuiltin(BuiltinEntry{
		Name:    "help",
		Kind:    BuiltinHelp,
		Use:     "help",
		Short:   "Show this help message",
		Builtin: ShellBuiltinFunc(Help),
	})
}
