package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.hcl", "b.yaml", "nested/c.hcl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "nested", "c.hcl")}, files)
}

func TestIsRegularFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph_0")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	ok, err := IsRegularFile(path)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = IsRegularFile(dir)
	require.NoError(t, err)
	require.False(t, ok, "a directory is not a regular file")

	ok, err = IsRegularFile(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveDir(t *testing.T) {
	t.Parallel()
	require.Equal(t, filepath.Join("out", "tests"), ResolveDir("out", "tests"))
	require.Equal(t, "/abs/tests", ResolveDir("out", "/abs/tests"))
	require.Equal(t, "tests", ResolveDir("", "tests"))
}
