package vostest

import (
	"syscall"

	"github.com/josephlewis42/simpleshell/core/vos"
	"github.com/spf13/afero"
)

const (
	// Home is the home directory of the deterministic user.
	Home = "/home/user"
	// Path is the search path of the deterministic user.
	Path = "/usr/bin:/bin"
)

// NewDeterministicOS creates interpreter state on an in-memory filesystem
// holding a home directory and the usual top level directories. The working
// directory starts at Home.
func NewDeterministicOS(files vos.VIO) *vos.ProcOS {
	fsys := afero.NewMemMapFs()
	for _, dir := range []string{Home, "/tmp", "/bin", "/usr/bin", "/root"} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
	}

	env := vos.NewMapEnvFromEnvList([]string{
		vos.EnvHome + "=" + Home,
		vos.EnvPath + "=" + Path,
		vos.EnvUser + "=user",
		vos.EnvPWD + "=" + Home,
	})

	out := vos.NewProcOS(fsys, env, files, Home)
	out.Host = "localhost"
	out.UID = 1000
	return out
}

// Program is a fake program run by the FakeLauncher, it returns the exit
// status. attr is never nil and always has Files set.
type Program func(argv []string, attr *vos.ProcAttr) int

// Launch records a single call to a FakeLauncher.
type Launch struct {
	Argv       []string
	Dir        string
	Env        []string
	Background bool
}

// FakeLauncher runs Programs in process and records every launch.
// Background launches are recorded but never run.
type FakeLauncher struct {
	// Programs maps names to programs, unknown names fail at the exec stage.
	Programs map[string]Program
	// FailCreate makes every launch fail at the create stage.
	FailCreate bool
	// NextPID is the ID handed to the next background launch.
	NextPID int
	// Fs, if set, is checked for the working directory of each launch.
	Fs afero.Fs

	Launches []Launch
}

var _ vos.Launcher = (*FakeLauncher)(nil)

// NewFakeLauncher creates a launcher for the given programs with PIDs
// starting at 4242.
func NewFakeLauncher(programs map[string]Program) *FakeLauncher {
	return &FakeLauncher{
		Programs: programs,
		NextPID:  4242,
	}
}

func (f *FakeLauncher) lookup(argv []string, attr *vos.ProcAttr, background bool) (Program, error) {
	if attr == nil {
		attr = &vos.ProcAttr{}
	}
	f.Launches = append(f.Launches, Launch{
		Argv:       append([]string(nil), argv...),
		Dir:        attr.Dir,
		Env:        attr.Env,
		Background: background,
	})

	name := ""
	if len(argv) > 0 {
		name = argv[0]
	}
	if f.FailCreate {
		return nil, &vos.LaunchError{Name: name, Stage: vos.StageCreate, Cause: syscall.EAGAIN}
	}

	if f.Fs != nil && attr.Dir != "" {
		if _, err := f.Fs.Stat(attr.Dir); err != nil {
			return nil, &vos.LaunchError{Name: name, Stage: vos.StageDir, Cause: err}
		}
	}

	prog, ok := f.Programs[name]
	if !ok {
		return nil, &vos.LaunchError{Name: name, Stage: vos.StageExec, Cause: vos.ErrNotFound}
	}
	return prog, nil
}

// RunForeground implements vos.Launcher.RunForeground.
func (f *FakeLauncher) RunForeground(argv []string, attr *vos.ProcAttr) (int, error) {
	prog, err := f.lookup(argv, attr, false)
	if err != nil {
		return -1, err
	}

	progAttr := &vos.ProcAttr{Files: vos.NewNullIO()}
	if attr != nil {
		*progAttr = *attr
		if progAttr.Files == nil {
			progAttr.Files = vos.NewNullIO()
		}
	}
	return prog(argv, progAttr), nil
}

// SpawnBackground implements vos.Launcher.SpawnBackground.
func (f *FakeLauncher) SpawnBackground(argv []string, attr *vos.ProcAttr) (int, error) {
	if _, err := f.lookup(argv, attr, true); err != nil {
		return -1, err
	}

	pid := f.NextPID
	f.NextPID++
	return pid, nil
}
