package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/simpleshell/commands"
	"github.com/josephlewis42/simpleshell/core/config"
	"github.com/josephlewis42/simpleshell/core/logger"
	"github.com/josephlewis42/simpleshell/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// osExit ends the process with the shell's status.
var osExit = os.Exit

var (
	cfgPath      string
	commandLine  string
	colorMode    string
	eventLogPath string
	debug        bool
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "simpleshell")
}

// diagnosticLogger writes to stderr only in debug mode.
func diagnosticLogger(cmd *cobra.Command) *log.Logger {
	out := io.Discard
	if debug {
		out = cmd.ErrOrStderr()
	}
	return log.New(out, "[simpleshell] ", 0)
}

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	fsys := afero.NewOsFs()
	configuration, err := config.Load(fsys, cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		logger.Printf("No configuration in %q, using defaults; run init to create one", cfgPath)
		return config.Default(fsys, cfgPath), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simpleshell",
	Short: "A minimal interactive shell",
	Long: `A minimal interactive shell with the cd, help and exit builtins.
Other lines run as programs; a trailing & runs them in the background.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		diag := diagnosticLogger(cmd)

		cfg, err := loadConfig(diag)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("color") {
			cfg.Color = colorMode
		}
		if cmd.Flags().Changed("event-log") {
			if cfg.EventLog, err = filepath.Abs(eventLogPath); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		status, err := runShell(cmd, cfg, diag)
		if err != nil {
			return err
		}
		osExit(status)
		return nil
	},
}

func runShell(cmd *cobra.Command, cfg *config.Configuration, diag *log.Logger) (int, error) {
	virtOS, err := vos.NewOSProcess()
	if err != nil {
		return 1, err
	}

	events := logger.NewNopLogger()
	if cfg.EventLogPath() != "" {
		fd, err := cfg.OpenEventLog()
		if err != nil {
			return 1, err
		}
		defer fd.Close()
		events = logger.NewJsonLinesLogRecorder(fd)
	}
	session := events.NewSession()
	diag.Printf("Session %s started in %q", session.SessionID(), virtOS.Getwd())

	launcher := &vos.OSLauncher{
		Fs:   virtOS.Fs(),
		Reap: cfg.ReapBackground,
		OnExit: func(pid, status int) {
			diag.Printf("Background process %d exited with %d", pid, status)
			if err := session.BackgroundExit(pid, status); err != nil {
				diag.Printf("event log: %v", err)
			}
		},
	}

	sh := commands.NewShell(virtOS, launcher, cfg)
	sh.Events = session
	sh.Log = diag
	stdoutFd := int(os.Stdout.Fd())
	sh.Color.IsTerminal = func() bool {
		return term.IsTerminal(stdoutFd)
	}

	if cmd.Flags().Changed("command") {
		// Failures are reported on stdout, the shell itself still succeeds.
		sh.RunCommand(commandLine)
		diag.Printf("Command exited with %d", sh.LastStatus())
		return 0, nil
	}

	// Interrupts reach the foreground program, the shell keeps running.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			diag.Println("Interrupt")
		}
	}()

	reader, closeReader, err := newLineReader(cfg)
	if err != nil {
		return 1, err
	}
	defer closeReader()

	sh.Welcome()
	return sh.Run(reader), nil
}

// newLineReader uses readline for terminals and plain buffered reads
// otherwise.
func newLineReader(cfg *config.Configuration) (commands.LineReader, func(), error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return commands.NewPlainReader(os.Stdin, os.Stdout), func() {}, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 cfg.Prompt,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("readline: %w", err)
	}
	rl.HistoryDisable()

	return rl, func() { rl.Close() }, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config directory or config.yaml path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write diagnostics to stderr")

	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
	rootCmd.Flags().StringVar(&colorMode, "color", config.ColorAuto, "colorize the output (always|auto|never)")
	rootCmd.Flags().StringVar(&eventLogPath, "event-log", "", "write a JSON lines event log to this path")
}
