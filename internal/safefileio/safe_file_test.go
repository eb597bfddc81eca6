package safefileio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// safeTempDir creates a temporary directory and resolves any symlinks in its path
// to ensure consistent behavior across different environments.
func safeTempDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	realPath, err := filepath.EvalSymlinks(tempDir)
	require.NoError(t, err, "Failed to resolve symlinks in temp dir")
	return realPath
}

func TestSafeWriteFile(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "write to new file",
			setup: func(t *testing.T) string {
				return filepath.Join(safeTempDir(t), "🐧🏠alice／notes.json")
			},
		},
		{
			name: "write to existing file should fail",
			setup: func(t *testing.T) string {
				p := filepath.Join(safeTempDir(t), "existing.json")
				require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))
				return p
			},
			wantErr: ErrFileExists,
		},
		{
			name: "write through symlinked directory should fail",
			setup: func(t *testing.T) string {
				dir := safeTempDir(t)
				target := filepath.Join(dir, "target")
				require.NoError(t, os.Mkdir(target, 0o750))
				link := filepath.Join(dir, "link")
				require.NoError(t, os.Symlink(target, link))
				return filepath.Join(link, "file.json")
			},
			wantErr: ErrIsSymlink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			err := SafeWriteFile(path, []byte("content"), 0o600)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "content", string(got))
		})
	}
}

func TestSafeWriteFile_SymlinkTarget(t *testing.T) {
	dir := safeTempDir(t)
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	err := SafeWriteFile(link, []byte("y"), 0o600)
	// O_EXCL reports the existing link before O_NOFOLLOW is consulted
	assert.True(t, errors.Is(err, ErrFileExists) || errors.Is(err, ErrIsSymlink), "got %v", err)
}

func TestSafeWriteFileOverwrite(t *testing.T) {
	dir := safeTempDir(t)
	path := filepath.Join(dir, "record.json")

	require.NoError(t, SafeWriteFileOverwrite(path, []byte("first"), 0o600))
	require.NoError(t, SafeWriteFileOverwrite(path, []byte("second"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "record.json", entries[0].Name())
}

func TestSafeWriteFileOverwrite_RejectsSymlink(t *testing.T) {
	dir := safeTempDir(t)
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, []byte("keep"), 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	err := SafeWriteFileOverwrite(link, []byte("replace"), 0o600)
	assert.ErrorIs(t, err, ErrIsSymlink)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))
}

type failingRenameFS struct {
	osFS
	removed []string
}

var errRename = errors.New("rename failed")

func (f *failingRenameFS) Rename(string, string) error { return errRename }

func (f *failingRenameFS) Remove(name string) error {
	f.removed = append(f.removed, name)
	return os.Remove(name)
}

func TestSafeWriteFileOverwrite_CleansUpOnFailure(t *testing.T) {
	dir := safeTempDir(t)
	fs := &failingRenameFS{}

	err := safeWriteFileOverwriteWithFS(filepath.Join(dir, "record.json"), []byte("x"), 0o600, fs)
	require.ErrorIs(t, err, errRename)
	require.Len(t, fs.removed, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(fs.removed[0]), ".tmp-"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSafeReadFile(t *testing.T) {
	dir := safeTempDir(t)
	path := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	got, err := SafeReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(path, link))
	_, err = SafeReadFile(link)
	assert.ErrorIs(t, err, ErrIsSymlink)

	_, err = SafeReadFile(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = SafeReadFile(dir)
	assert.ErrorIs(t, err, ErrInvalidFilePath)
}

func TestSafeCreateFile(t *testing.T) {
	dir := safeTempDir(t)
	path := filepath.Join(dir, "run.log")

	f, err := SafeCreateFile(path, 0o600)
	require.NoError(t, err)
	_, err = f.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	content, err := SafeReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(content))

	_, err = SafeCreateFile(path, 0o600)
	assert.ErrorIs(t, err, ErrFileExists)
}
