package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func sameDir(t *testing.T, want, got string) {
	t.Helper()
	w, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	g, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, w, g)
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	assert.Nil(t, cfg.Prefix)
	assert.Equal(t, []string{".txt", ".tmpl", ".md"}, cfg.Extensions)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), fileName)
	writeFile(t, path, "prefix = \"\\t\"\nextensions = [\".go\", \".txt\"]\n")

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))
	require.NotNil(t, cfg.Prefix)
	assert.Equal(t, "\t", *cfg.Prefix)
	assert.Equal(t, []string{".go", ".txt"}, cfg.Extensions)
}

func TestLoadFileKeepsUnsetValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), fileName)
	writeFile(t, path, "prefix = \"\"\n")

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))
	require.NotNil(t, cfg.Prefix)
	assert.Equal(t, "", *cfg.Prefix)
	assert.Equal(t, New().Extensions, cfg.Extensions)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := New().LoadFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "reading config file")

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "prefix = [\n")
	err = New().LoadFile(bad)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoadSearchesParents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, fileName), "extensions = [\".tmpl\"]\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg := New()
	require.NoError(t, cfg.Load())
	assert.Equal(t, []string{".tmpl"}, cfg.Extensions)
}

func TestDBPath(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg := New()
	assert.Error(t, cfg.FindExistingDBPath())

	require.NoError(t, cfg.FindOrCreateDBPath())
	assert.Equal(t, dbName, filepath.Base(cfg.DBPath))
	sameDir(t, nested, filepath.Dir(cfg.DBPath))

	// An existing database in a parent wins over creating a new one.
	writeFile(t, filepath.Join(root, dbName), "")
	cfg = New()
	require.NoError(t, cfg.FindOrCreateDBPath())
	sameDir(t, root, filepath.Dir(cfg.DBPath))
}
