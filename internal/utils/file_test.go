package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONAtomic_ReplacesWholeFile(t *testing.T) {
	logger.UseTestMode()
	path := filepath.Join(t.TempDir(), "nested", "record.json")

	require.NoError(t, WriteJSONAtomic(path, map[string]string{"state": "readyToInstall", "file": "a-very-long-name.msi"}))
	require.NoError(t, WriteJSONAtomic(path, map[string]string{"state": "upToDate"}))

	var got map[string]string
	require.NoError(t, FileReader(path, FileTypeJSON, &got))
	assert.Equal(t, map[string]string{"state": "upToDate"}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileReader_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	var v map[string]any
	assert.Error(t, FileReader(filepath.Join(dir, "missing.json"), FileTypeJSON, &v))
	assert.Error(t, FileReader(empty, FileTypeJSON, &v))
	assert.Error(t, FileReader(empty, "toml", &v))
}

func TestCopyFile_OverwritesAndSetsMode(t *testing.T) {
	logger.UseTestMode()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o600))
	require.NoError(t, os.WriteFile(dst, []byte("older and longer"), 0o600))

	require.NoError(t, CopyFile(src, dst, 0o755))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	if info, err := os.Stat(dst); assert.NoError(t, err) && os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := FileExists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = FileExists(dir)
	assert.Error(t, err)
}

func TestParseSecureURL(t *testing.T) {
	_, err := ParseSecureURL("https://api.github.com/repos/x/y/releases/latest", false)
	assert.NoError(t, err)

	_, err = ParseSecureURL("http://127.0.0.1:8080/latest", false)
	assert.Error(t, err)

	_, err = ParseSecureURL("http://127.0.0.1:8080/latest", true)
	assert.NoError(t, err)

	_, err = ParseSecureURL("https:///nohost", false)
	assert.Error(t, err)

	_, err = ParseSecureURL("file:///etc/passwd", true)
	assert.Error(t, err)
}
