package commands

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/simpleshell/core/config"
	"github.com/josephlewis42/simpleshell/core/logger"
	"github.com/josephlewis42/simpleshell/core/shell"
	"github.com/josephlewis42/simpleshell/core/vos"
)

// maxReadErrors is the number of consecutive read failures treated as the
// end of input.
const maxReadErrors = 3

// Shell interprets command lines against a virtual OS.
type Shell struct {
	VirtualOS vos.VOS
	Launcher  vos.Launcher
	Config    *config.Configuration
	Tokenizer shell.Tokenizer

	// Events records what the shell ran.
	Events *logger.SessionLogger
	// Color decorates error and background messages.
	Color *ColorPrinter
	// Log receives diagnostics that aren't shown to the user.
	Log *log.Logger

	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell with events and diagnostics discarded. Callers
// may replace Events, Color and Log before running it.
func NewShell(virtualOS vos.VOS, launcher vos.Launcher, cfg *config.Configuration) *Shell {
	return &Shell{
		VirtualOS: virtualOS,
		Launcher:  launcher,
		Config:    cfg,
		Tokenizer: shell.Tokenizer{
			MaxArgs:  cfg.MaxArgs,
			Overflow: shell.OverflowPolicy(cfg.Overflow),
		},
		Events: logger.NewNopLogger().Sessionless(),
		Color:  &ColorPrinter{Mode: cfg.Color},
		Log:    log.New(io.Discard, "", 0),
	}
}

// LastStatus returns the status of the last command.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// Welcome prints the banner.
func (s *Shell) Welcome() {
	if s.Config.Welcome != "" {
		fmt.Fprintln(s.VirtualOS.Stdout(), s.Config.Welcome)
	}
}

func (s *Shell) prompt() string {
	prompt := s.Config.Prompt
	prompt = strings.ReplaceAll(prompt, `\u`, s.VirtualOS.Getenv(vos.EnvUser))
	if strings.Contains(prompt, `\h`) {
		host, err := s.VirtualOS.Hostname()
		if err != nil {
			s.Log.Printf("hostname: %v", err)
		}
		prompt = strings.ReplaceAll(prompt, `\h`, host)
	}

	pwd := s.VirtualOS.Getwd()
	home := s.VirtualOS.Getenv(vos.EnvHome)
	if home != "" && home != "/" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.VirtualOS.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and runs lines until exit or the end of input. It returns the
// status the shell should exit with.
func (s *Shell) Run(r LineReader) int {
	readErrors := 0
	for !s.Quit {
		r.SetPrompt(s.prompt())
		line, err := r.Readline()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.VirtualOS.Stdout())
			return 0

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.Log.Printf("Error readline: %v", err)
			readErrors++
			if readErrors >= maxReadErrors {
				fmt.Fprintln(s.VirtualOS.Stdout())
				return 0
			}
			continue
		}

		readErrors = 0
		s.RunCommand(line)
	}
	return 0
}

// RunCommand interprets a single raw line.
func (s *Shell) RunCommand(line string) {
	cmd := shell.Normalize(line)
	if cmd.Empty() {
		return
	}

	argv, err := s.Tokenizer.Tokenize(cmd.Text)
	switch {
	case errors.Is(err, shell.ErrTooManyArgs):
		s.Log.Printf("tokenize: %v", err)
		s.printError("Error: too many arguments")
		s.lastRet = 1
		return
	case err != nil:
		s.printError(fmt.Sprintf("Error: %v", err))
		s.lastRet = 1
		return
	case len(argv) == 0:
		return
	}

	if Classify(argv[0]) == BuiltinNone {
		s.launch(argv, cmd.Background)
		return
	}

	// The background marker has no effect on builtins.
	s.runBuiltin(argv)
}

func (s *Shell) runBuiltin(argv []string) {
	s.record(s.Events.Builtin(argv))
	s.lastRet = AllBuiltins[argv[0]].Builtin.Main(s, argv)
}

func (s *Shell) launch(argv []string, background bool) {
	s.record(s.Events.RunCommand(argv, background))

	attr := &vos.ProcAttr{
		Dir:   s.VirtualOS.Getwd(),
		Env:   s.VirtualOS.Environ(),
		Files: s.VirtualOS,
	}

	if !background {
		status, err := s.Launcher.RunForeground(argv, attr)
		if err != nil {
			s.reportLaunchError(argv, err)
			return
		}
		s.lastRet = status
		return
	}

	pid, err := s.Launcher.SpawnBackground(argv, attr)
	if err != nil {
		s.reportLaunchError(argv, err)
		return
	}
	s.record(s.Events.BackgroundSpawn(argv, pid))
	s.lastRet = 0
	fmt.Fprintln(s.VirtualOS.Stdout(), s.Color.Sprintf(ColorBoldCyan, "[Background] Process ID: %d", pid))
}

func (s *Shell) reportLaunchError(argv []string, err error) {
	s.Log.Printf("launch %q: %v", argv[0], err)

	stage := vos.LaunchStage(err)
	s.record(s.Events.LaunchFailure(argv, string(stage), err))

	switch stage {
	case vos.StageExec:
		s.printError(fmt.Sprintf("Error: Command '%s' not found", argv[0]))
		s.lastRet = 127
	case vos.StageDir:
		s.printError(fmt.Sprintf("Error: Could not enter directory '%s'", s.VirtualOS.Getwd()))
		s.lastRet = 1
	default:
		s.printError("Error: Could not create a new process")
		s.lastRet = 1
	}
}

func (s *Shell) printError(msg string) {
	fmt.Fprintln(s.VirtualOS.Stdout(), s.Color.Sprintf(ColorBoldRed, "%s", msg))
}

func (s *Shell) record(err error) {
	if err != nil {
		s.Log.Printf("event log: %v", err)
	}
}
