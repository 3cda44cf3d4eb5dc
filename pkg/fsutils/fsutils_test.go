package fsutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruePath(t *testing.T) {
	tempDir := t.TempDir()

	// Create a real file
	realFile := filepath.Join(tempDir, "realfile")
	err := os.WriteFile(realFile, []byte("hello"), 0644)
	require.NoError(t, err)

	// Get absolute path of real file
	absRealFile, err := filepath.Abs(realFile)
	require.NoError(t, err)

	// Test with real file
	path, err := TruePath(realFile)
	require.NoError(t, err)
	// On macOS, /var is a symlink to /private/var. EvalSymlinks resolves this.
	// We should compare against the resolved version of absRealFile.
	resolvedAbsRealFile, err := filepath.EvalSymlinks(absRealFile)
	require.NoError(t, err)
	assert.Equal(t, resolvedAbsRealFile, path)

	// Create a symlink
	symlink := filepath.Join(tempDir, "symlink")
	err = os.Symlink(realFile, symlink)
	require.NoError(t, err)

	// Test with symlink
	path, err = TruePath(symlink)
	require.NoError(t, err)
	assert.Equal(t, resolvedAbsRealFile, path)
}

func TestTruePath_NonExistent(t *testing.T) {
	path, err := TruePath("/non/existent/path/that/really/should/not/exist")
	require.Error(t, err)
	assert.Empty(t, path)
}

func TestCopyFile(t *testing.T) {
	tempDir := t.TempDir()

	src := filepath.Join(tempDir, "src.bin")
	content := []byte{0x00, 0x01, 0x02, 0xff}
	require.NoError(t, os.WriteFile(src, content, 0o640))

	dst := filepath.Join(tempDir, "dst.bin")
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestCopyFile_TruncatesExistingDestination(t *testing.T) {
	tempDir := t.TempDir()

	src := filepath.Join(tempDir, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("short"), 0o644))

	dst := filepath.Join(tempDir, "dst.bin")
	require.NoError(t, os.WriteFile(dst, []byte("much longer previous content"), 0o644))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)
}

func TestCopyFile_MissingSource(t *testing.T) {
	tempDir := t.TempDir()

	err := CopyFile(filepath.Join(tempDir, "absent"), filepath.Join(tempDir, "dst"))
	require.Error(t, err)
}

func TestCopyFile_SourceIsDirectory(t *testing.T) {
	tempDir := t.TempDir()

	err := CopyFile(tempDir, filepath.Join(tempDir, "dst"))
	require.Error(t, err)
}
