package vos

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookPathFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/bin", "/usr/bin", "/home/user/bin"} {
		require.NoError(t, fsys.MkdirAll(dir, 0755))
	}
	for path, mode := range map[string]fs.FileMode{
		"/bin/ls":             0755,
		"/usr/bin/ls":         0755,
		"/usr/bin/vim":        0755,
		"/bin/notes.txt":      0644,
		"/home/user/run.sh":   0700,
		"/home/user/bin/tool": 0755,
	} {
		require.NoError(t, afero.WriteFile(fsys, path, []byte("#!/bin/sh\n"), mode))
	}
	return fsys
}

func TestLookPath(t *testing.T) {
	fsys := newLookPathFs(t)

	cases := map[string]struct {
		path    string
		dir     string
		file    string
		want    string
		wantErr error
	}{
		"first match wins":   {"/bin:/usr/bin", "/", "ls", "/bin/ls", nil},
		"later entry":        {"/bin:/usr/bin", "/", "vim", "/usr/bin/vim", nil},
		"missing":            {"/bin:/usr/bin", "/", "bogus_cmd_xyz", "", ErrNotFound},
		"not executable":     {"/bin", "/", "notes.txt", "", ErrNotFound},
		"empty path":         {"", "/", "ls", "", ErrNotFound},
		"empty elem is dot":  {":/bin", "/home/user", "run.sh", "/home/user/run.sh", nil},
		"relative elem":      {"bin", "/home/user", "tool", "/home/user/bin/tool", nil},
		"absolute slash":     {"", "/", "/bin/ls", "/bin/ls", nil},
		"relative slash":     {"", "/home/user", "./run.sh", "/home/user/run.sh", nil},
		"slash not found":    {"/bin", "/", "/nope/ls", "", ErrNotFound},
		"slash no exec bit":  {"/bin", "/", "/bin/notes.txt", "", fs.ErrPermission},
		"slash is directory": {"/bin", "/", "/usr/bin", "", fs.ErrPermission},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(fsys, tc.path, tc.dir, tc.file)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
