package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/simpleshell/core/config"
	getopt "github.com/pborman/getopt/v2"
)

// SimpleCommand parses getopt style flags for a builtin and prints its
// usage on request or on error.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command with args, args[0] is the command name. If flag parsing was
// successful call the callback.
func (s *SimpleCommand) Run(sh *Shell, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(args, nil)
	if err != nil {
		sh.Log.Printf("%s: invalid invocation: %v", args[0], err)
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(sh.VirtualOS.Stdout(), "%s: %s\n\n", args[0], err)

		s.PrintHelp(sh.VirtualOS.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(sh.VirtualOS.Stdout())
		return 0
	}

	return callback()
}

var (
	ColorBoldCyan = color.New(color.FgCyan, color.Bold)
	ColorBoldRed  = color.New(color.FgRed, color.Bold)
)

// ColorPrinter decorates shell messages when color is enabled.
type ColorPrinter struct {
	// Mode is one of always, auto or never.
	Mode string
	// IsTerminal reports whether the output is a terminal, used in auto mode.
	IsTerminal func() bool
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case c == nil || c.Mode == config.ColorNever:
		return false
	case c.Mode == config.ColorAlways:
		return true
	default:
		return c.IsTerminal != nil && c.IsTerminal()
	}
}

func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The package level default disables color when the process stdout
		// isn't a terminal so enable it on a copy.
		forced := *clr
		forced.EnableColor()
		return forced.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
