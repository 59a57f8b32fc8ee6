package vos

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// ProcOS is the state of a running interpreter: its environment, standard
// streams and working directory.
type ProcOS struct {
	VEnv

	VIO

	// Host overrides the hostname if set.
	Host string
	// The user ID of the process.
	UID int

	fs  afero.Fs
	dir string
}

var _ VOS = (*ProcOS)(nil)

// NewProcOS creates interpreter state over the given filesystem. dir must
// be an absolute path.
func NewProcOS(fsys afero.Fs, env VEnv, files VIO, dir string) *ProcOS {
	if files == nil {
		files = NewNullIO()
	}
	if env == nil {
		env = NewMapEnv()
	}

	return &ProcOS{
		VEnv: env,
		VIO:  files,
		UID:  -1,
		fs:   fsys,
		dir:  filepath.Clean(dir),
	}
}

// NewOSProcess creates interpreter state from the current process.
func NewOSProcess() (*ProcOS, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	out := NewProcOS(afero.NewOsFs(), NewMapEnvFromEnvList(os.Environ()), NewOSIO(), wd)
	out.UID = os.Getuid()
	return out, nil
}

// Fs implements VOS.Fs.
func (p *ProcOS) Fs() afero.Fs {
	return p.fs
}

// Hostname implements VNetwork.Hostname.
func (p *ProcOS) Hostname() (string, error) {
	if p.Host != "" {
		return p.Host, nil
	}
	return os.Hostname()
}

// Getuid implements VProc.Getuid.
func (p *ProcOS) Getuid() int {
	return p.UID
}

// Getwd implements VProc.Getwd.
func (p *ProcOS) Getwd() string {
	return p.dir
}

// Chdir implements VProc.Chdir. On success PWD is updated to match.
func (p *ProcOS) Chdir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.dir, dir)
	}
	dir = filepath.Clean(dir)

	if err := checkDir(p.fs, dir); err != nil {
		return err
	}

	p.dir = dir
	if err := p.Setenv(EnvPWD, dir); err != nil {
		return fmt.Errorf("chdir: %v", err)
	}
	return nil
}

// checkDir verifies dir is a directory the caller may enter. On the host
// filesystem the kernel decides; other filesystems have no caller identity
// so a directory without any search bit is rejected.
func checkDir(fsys afero.Fs, dir string) error {
	stat, err := fsys.Stat(dir)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	if _, ok := fsys.(*afero.OsFs); ok {
		if err := searchable(dir); err != nil {
			return &fs.PathError{Op: "chdir", Path: dir, Err: err}
		}
		return nil
	}

	if stat.Mode().Perm()&0111 == 0 {
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrPermission}
	}
	return nil
}
