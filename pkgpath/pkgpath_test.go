package pkgpath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindConfigDir(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "runtime", "cmake", DefaultConfigFile))
	touch(t, filepath.Join(root, "runtime", "lib", "libcore.so"))

	dir, err := FindConfigDir(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "runtime", "cmake"), dir)

	dir, err = FindConfigDir(root, "libcore.so")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "runtime", "lib"), dir)
}

func TestFindConfigDir_NotFound(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "b.txt"))

	dir, err := FindConfigDir(root, DefaultConfigFile)
	require.NoError(t, err)
	assert.Empty(t, dir)
}

func TestFindConfigDir_MissingRoot(t *testing.T) {
	_, err := FindConfigDir(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestLibraryDirs_Pip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "libs"), 0o755))

	assert.Equal(t, []string{filepath.Join(root, "libs")}, LibraryDirs(root, "/ignored"))
}

func TestLibraryDirs_Conda(t *testing.T) {
	prefix := t.TempDir()
	root := filepath.Join(prefix, "lib", "site-packages", "pkg")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "Library", "bin"), 0o755))

	assert.Equal(t, []string{filepath.Join(prefix, "Library", "bin")}, LibraryDirs(root, ""))
}

func TestLibraryDirs_Env(t *testing.T) {
	root := t.TempDir()
	abs := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "rel"), 0o755))

	env := strings.Join([]string{abs, "rel", "", filepath.Join(root, "missing")}, string(os.PathListSeparator))
	assert.Equal(t, []string{abs, filepath.Join(root, "rel")}, LibraryDirs(root, env))

	t.Setenv(LibPathsEnv, abs)
	assert.Equal(t, []string{abs}, LibraryDirsFromEnv(root))
}
