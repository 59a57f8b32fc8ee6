package vos

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireSh skips tests that need a POSIX shell on the host.
func requireSh(t *testing.T) []string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("launcher tests need a POSIX system")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available:", err)
	}
	return []string{"PATH=" + filepath.Dir(sh) + ":/bin:/usr/bin"}
}

func TestOSLauncher_RunForeground(t *testing.T) {
	env := requireSh(t)
	launcher := &OSLauncher{}

	status, err := launcher.RunForeground([]string{"sh", "-c", "exit 3"}, &ProcAttr{Env: env})
	require.NoError(t, err)
	assert.Equal(t, 3, status)

	status, err = launcher.RunForeground([]string{"sh", "-c", "true"}, &ProcAttr{Env: env})
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestOSLauncher_inheritsDirAndEnv(t *testing.T) {
	env := requireSh(t)
	dir := t.TempDir()

	out := &bytes.Buffer{}
	status, err := (&OSLauncher{}).RunForeground(
		[]string{"sh", "-c", `pwd; echo "$GREETING"`},
		&ProcAttr{
			Dir:   dir,
			Env:   append(env, "GREETING=hello"),
			Files: NewVIOAdapter(nil, out, nil),
		})
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, "hello", lines[1])
}

func TestOSLauncher_notFound(t *testing.T) {
	env := requireSh(t)
	launcher := &OSLauncher{}

	_, err := launcher.RunForeground([]string{"bogus_cmd_xyz"}, &ProcAttr{Env: env})
	require.Error(t, err)
	assert.Equal(t, StageExec, LaunchStage(err))
	assert.True(t, errors.Is(err, ErrNotFound))

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "bogus_cmd_xyz", launchErr.Name)

	_, err = launcher.SpawnBackground([]string{"bogus_cmd_xyz"}, &ProcAttr{Env: env})
	assert.Equal(t, StageExec, LaunchStage(err))
}

func TestOSLauncher_notExecutable(t *testing.T) {
	env := requireSh(t)
	script := filepath.Join(t.TempDir(), "script")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0644))

	_, err := (&OSLauncher{}).RunForeground([]string{script}, &ProcAttr{Env: env})
	assert.Equal(t, StageExec, LaunchStage(err))
}

func TestOSLauncher_emptyArgv(t *testing.T) {
	_, err := (&OSLauncher{}).RunForeground(nil, nil)
	assert.Equal(t, StageExec, LaunchStage(err))
}

func TestOSLauncher_SpawnBackground(t *testing.T) {
	env := requireSh(t)

	type exit struct{ pid, status int }
	exits := make(chan exit, 1)
	launcher := &OSLauncher{
		Reap: true,
		OnExit: func(pid, status int) {
			exits <- exit{pid, status}
		},
	}

	start := time.Now()
	pid, err := launcher.SpawnBackground([]string{"sh", "-c", "sleep 1; exit 4"}, &ProcAttr{Env: env})
	require.NoError(t, err)
	assert.Greater(t, pid, 0)
	assert.Less(t, int64(time.Since(start)), int64(time.Second), "spawn blocked on the child")

	select {
	case got := <-exits:
		assert.Equal(t, exit{pid, 4}, got)
	case <-time.After(10 * time.Second):
		t.Fatal("background process was never reaped")
	}
}

func TestOSLauncher_SpawnBackgroundWithoutReaper(t *testing.T) {
	env := requireSh(t)

	pid, err := (&OSLauncher{}).SpawnBackground([]string{"sh", "-c", "exit 0"}, &ProcAttr{Env: env})
	require.NoError(t, err)
	assert.Greater(t, pid, 0)
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, -1, ExitStatus(errors.New("boom")))
}

func TestLaunchError(t *testing.T) {
	cause := errors.New("resource temporarily unavailable")
	err := error(&LaunchError{Name: "ls", Stage: StageCreate, Cause: cause})

	assert.Equal(t, "ls: create failed: resource temporarily unavailable", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, StageCreate, LaunchStage(err))
	assert.Equal(t, Stage(""), LaunchStage(cause))
}

func TestOSLauncher_removedWorkingDir(t *testing.T) {
	env := requireSh(t)
	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(dir, 0755))

	proc := NewProcOS(afero.NewOsFs(), NewMapEnvFromEnvList(env), nil, "/")
	require.NoError(t, proc.Chdir(dir))
	require.NoError(t, os.Remove(dir))

	attr := &ProcAttr{Dir: proc.Getwd(), Env: proc.Environ()}
	_, err := (&OSLauncher{}).RunForeground([]string{"sh", "-c", "true"}, attr)
	assert.Equal(t, StageDir, LaunchStage(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = (&OSLauncher{}).SpawnBackground([]string{"sh", "-c", "true"}, attr)
	assert.Equal(t, StageDir, LaunchStage(err))
}

func TestOSLauncher_unsearchableWorkingDir(t *testing.T) {
	env := requireSh(t)
	if os.Getuid() == 0 {
		t.Skip("root may enter any directory")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.Chmod(dir, 0077))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	_, err := (&OSLauncher{}).RunForeground([]string{"sh", "-c", "true"}, &ProcAttr{Dir: dir, Env: env})
	assert.Equal(t, StageDir, LaunchStage(err))
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestStartError(t *testing.T) {
	cases := map[string]struct {
		err  error
		want Stage
	}{
		"chdir":      {&fs.PathError{Op: "chdir", Path: "/gone", Err: fs.ErrNotExist}, StageDir},
		"missing":    {&fs.PathError{Op: "fork/exec", Path: "/bin/x", Err: fs.ErrNotExist}, StageExec},
		"permission": {&fs.PathError{Op: "fork/exec", Path: "/bin/x", Err: fs.ErrPermission}, StageExec},
		"resources":  {&fs.PathError{Op: "fork/exec", Path: "/bin/x", Err: errors.New("resource temporarily unavailable")}, StageCreate},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, LaunchStage(startError("x", tc.err)))
		})
	}
}
