package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dest, []byte("older and longer"), 0644))

	require.NoError(t, CopyFile(src, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestSafeCopy(t *testing.T) {
	errLocked := errors.New("the process cannot access the file because it is being used by another process")

	tests := []struct {
		name       string
		source     bool
		dest       bool
		copyErr    error
		want       CopyOutcome
		wantDest   string
		wantUsable bool
	}{
		{name: "fresh copy", source: true, want: Copied, wantDest: "src", wantUsable: true},
		{name: "overwrites", source: true, dest: true, want: Copied, wantDest: "src", wantUsable: true},
		{name: "source missing", dest: true, want: SourceMissing, wantDest: "old"},
		{name: "locked with stale copy", source: true, dest: true, copyErr: errLocked, want: ReusedStale, wantDest: "old", wantUsable: true},
		{name: "locked without copy", source: true, copyErr: errLocked, want: CopyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "pkg", "plugin.dll")
			dest := filepath.Join(dir, "bin", "plugin.dll")
			if tt.source {
				require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
				require.NoError(t, os.WriteFile(src, []byte("src"), 0644))
			}
			if tt.dest {
				require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
				require.NoError(t, os.WriteFile(dest, []byte("old"), 0644))
			}

			c := NewCopier(hclog.NewNullLogger())
			if tt.copyErr != nil {
				c.CopyFunc = func(string, string) error { return tt.copyErr }
			}

			got := c.SafeCopy(src, dest)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUsable, got.Usable())

			if tt.wantDest == "" {
				assert.False(t, Exists(dest))
				return
			}
			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDest, string(data))
		})
	}
}
