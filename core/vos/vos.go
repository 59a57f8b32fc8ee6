package vos

import "github.com/spf13/afero"

// VNetwork provides information about the host.
type VNetwork interface {
	Hostname() (string, error)
}

// VProc holds the process-wide state the shell is allowed to change.
type VProc interface {
	// Getuid returns the numeric user id of the caller.
	Getuid() int

	// Getwd returns the interpreter's working directory. Launched programs
	// inherit it at spawn time.
	Getwd() string

	// Chdir changes the working directory. Relative paths are resolved
	// against the current working directory.
	Chdir(dir string) error
}

// VOS provides a virtual OS interface. It holds the interpreter state shared
// by the shell, its builtins and the programs it launches.
type VOS interface {
	VNetwork
	VEnv
	VIO
	VProc

	// Fs is the filesystem used to resolve directories and programs.
	Fs() afero.Fs
}

// Environment variables the shell reads or maintains.
const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"
)
