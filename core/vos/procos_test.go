package vos

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcOS(t *testing.T) *ProcOS {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/home/user/src", 0755))
	require.NoError(t, fsys.MkdirAll("/locked", 0755))
	require.NoError(t, fsys.Chmod("/locked", fs.ModeDir|0600))
	require.NoError(t, afero.WriteFile(fsys, "/home/user/file.txt", nil, 0644))

	return NewProcOS(fsys, NewMapEnvFromEnvList([]string{"HOME=/home/user"}), nil, "/")
}

func TestProcOS_Chdir(t *testing.T) {
	cases := map[string]struct {
		start   string
		dir     string
		want    string
		wantErr error
	}{
		"absolute":      {"/", "/home/user", "/home/user", nil},
		"relative":      {"/home", "user/src", "/home/user/src", nil},
		"parent":        {"/home/user/src", "..", "/home/user", nil},
		"cleaned":       {"/", "/home//user/./src/", "/home/user/src", nil},
		"missing":       {"/", "/does/not/exist", "/", fs.ErrNotExist},
		"not directory": {"/", "/home/user/file.txt", "/", syscall.ENOTDIR},
		"no permission": {"/", "/locked", "/", fs.ErrPermission},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p := newTestProcOS(t)
			require.NoError(t, p.Chdir(tc.start))

			err := p.Chdir(tc.dir)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got error %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, p.Getwd())
		})
	}
}

func TestProcOS_ChdirSetsPWD(t *testing.T) {
	p := newTestProcOS(t)
	require.NoError(t, p.Chdir("/home/user"))
	assert.Equal(t, "/home/user", p.Getenv(EnvPWD))

	assert.Error(t, p.Chdir("/missing"))
	assert.Equal(t, "/home/user", p.Getenv(EnvPWD))
}

func TestProcOS_Hostname(t *testing.T) {
	p := newTestProcOS(t)
	p.Host = "box"

	host, err := p.Hostname()
	require.NoError(t, err)
	assert.Equal(t, "box", host)
}

func TestProcOS_ChdirHostPermission(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("needs a non-root POSIX user")
	}

	parent := t.TempDir()
	locked := filepath.Join(parent, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))
	// Others may search but the owner may not.
	require.NoError(t, os.Chmod(locked, 0077))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	p := NewProcOS(afero.NewOsFs(), NewMapEnv(), nil, parent)
	err := p.Chdir("locked")

	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, parent, p.Getwd())
	assert.Empty(t, p.Getenv(EnvPWD))
}

func TestProcOS_ChdirHost(t *testing.T) {
	dir := t.TempDir()
	p := NewProcOS(afero.NewOsFs(), NewMapEnv(), nil, "/")

	require.NoError(t, p.Chdir(dir))
	assert.Equal(t, filepath.Clean(dir), p.Getwd())
}
