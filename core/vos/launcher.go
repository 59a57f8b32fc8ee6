package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/afero"
)

// Stage identifies the step a launch failed at.
type Stage string

const (
	// StageCreate means no child process could be created.
	StageCreate Stage = "create"
	// StageExec means the program could not be found or loaded.
	StageExec Stage = "exec"
	// StageDir means the working directory could not be entered.
	StageDir Stage = "chdir"
)

// LaunchError is returned by a Launcher when a program could not be started.
type LaunchError struct {
	Name  string
	Stage Stage
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Name, e.Stage, e.Cause)
}

func (e *LaunchError) Unwrap() error { return e.Cause }

// LaunchStage returns the stage a launch error happened at, or "" if err
// isn't a *LaunchError.
func LaunchStage(err error) Stage {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Stage
	}
	return ""
}

// ProcAttr holds the attributes of a launched program.
type ProcAttr struct {
	// Dir is the working directory of the program. If empty the launcher's
	// own working directory is used.
	Dir string
	// If Env is non-nil, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the launcher's environment is used.
	Env []string

	// Files specifies the open files inherited by the new process.
	Files VIO
}

// Launcher runs external programs for the shell.
type Launcher interface {
	// RunForeground runs argv[0] with argv as its arguments and blocks until
	// it exits, returning its exit status.
	RunForeground(argv []string, attr *ProcAttr) (int, error)

	// SpawnBackground starts argv[0] with argv as its arguments and returns
	// its process ID without waiting for it.
	SpawnBackground(argv []string, attr *ProcAttr) (int, error)
}

// ExitFunc receives the exit status of a reaped background process.
type ExitFunc func(pid, status int)

// OSLauncher runs programs as real processes.
type OSLauncher struct {
	// Fs is used to search for programs, defaults to the OS filesystem.
	Fs afero.Fs

	// Reap waits on background processes so they don't linger after exit.
	// Without it background children are never waited for.
	Reap bool
	// OnExit is called from the reaper when a background process exits.
	OnExit ExitFunc
}

var _ Launcher = (*OSLauncher)(nil)

func (l *OSLauncher) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

func (l *OSLauncher) command(argv []string, attr *ProcAttr) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, &LaunchError{Stage: StageExec, Cause: ErrNotFound}
	}
	if attr == nil {
		attr = &ProcAttr{}
	}

	if attr.Dir != "" {
		if err := checkDir(l.fs(), attr.Dir); err != nil {
			return nil, &LaunchError{Name: argv[0], Stage: StageDir, Cause: err}
		}
	}

	searchPath := os.Getenv(EnvPath)
	if attr.Env != nil {
		searchPath = NewMapEnvFromEnvList(attr.Env).Getenv(EnvPath)
	}

	path, err := LookPath(l.fs(), searchPath, attr.Dir, argv[0])
	if err != nil {
		return nil, &LaunchError{Name: argv[0], Stage: StageExec, Cause: err}
	}

	files := attr.Files
	if files == nil {
		files = NewNullIO()
	}

	return &exec.Cmd{
		Path:   path,
		Args:   argv,
		Dir:    attr.Dir,
		Env:    attr.Env,
		Stdin:  files.Stdin(),
		Stdout: files.Stdout(),
		Stderr: files.Stderr(),
	}, nil
}

// RunForeground implements Launcher.RunForeground.
func (l *OSLauncher) RunForeground(argv []string, attr *ProcAttr) (int, error) {
	cmd, err := l.command(argv, attr)
	if err != nil {
		return -1, err
	}

	if err := cmd.Start(); err != nil {
		return -1, startError(argv[0], err)
	}

	return ExitStatus(cmd.Wait()), nil
}

// SpawnBackground implements Launcher.SpawnBackground.
func (l *OSLauncher) SpawnBackground(argv []string, attr *ProcAttr) (int, error) {
	cmd, err := l.command(argv, attr)
	if err != nil {
		return -1, err
	}

	if err := cmd.Start(); err != nil {
		return -1, startError(argv[0], err)
	}

	pid := cmd.Process.Pid
	if !l.Reap {
		_ = cmd.Process.Release()
		return pid, nil
	}

	go func() {
		status := ExitStatus(cmd.Wait())
		if l.OnExit != nil {
			l.OnExit(pid, status)
		}
	}()

	return pid, nil
}

// startError classifies a failed exec.Cmd.Start. Failures loading the
// program are reported as StageExec, anything else means the process
// couldn't be created.
func startError(name string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "chdir" {
		return &LaunchError{Name: name, Stage: StageDir, Cause: err}
	}

	stage := StageCreate
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.ENOEXEC) {
		stage = StageExec
	}
	return &LaunchError{Name: name, Stage: stage, Cause: err}
}

// ExitStatus extracts the exit status from the error returned by waiting on
// a process. Returns 0 if err is nil and -1 if there's no status.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}

	type exitCoder interface {
		ExitCode() int
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	return -1
}
