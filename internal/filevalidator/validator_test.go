package filevalidator

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isseis/go-path-filename/internal/artifactstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// safeTempDir creates a temporary directory and resolves any symlinks in its path
// to ensure consistent behavior across different environments.
func safeTempDir(t *testing.T) string {
	t.Helper()
	realPath, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return realPath
}

func newTestValidator(t *testing.T, algo HashAlgorithm) (*Validator, *artifactstore.Store, string) {
	t.Helper()
	dir := safeTempDir(t)
	store, err := artifactstore.NewStore(filepath.Join(dir, "hashes"), artifactstore.Options{})
	require.NoError(t, err)
	v, err := New(algo, store)
	require.NoError(t, err)
	files := filepath.Join(dir, "files")
	require.NoError(t, os.Mkdir(files, 0o750))
	return v, store, files
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNew(t *testing.T) {
	store, err := artifactstore.NewStore(t.TempDir(), artifactstore.Options{})
	require.NoError(t, err)

	_, err = New(nil, store)
	assert.ErrorIs(t, err, ErrNilAlgorithm)

	_, err = New(&SHA256{}, nil)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestValidator_RecordAndVerify(t *testing.T) {
	v, store, files := newTestValidator(t, &SHA256{})
	file := filepath.Join(files, "config:prod.toml")
	writeFile(t, file, "key = 1\n")

	hashFile, err := v.Record(file, false)
	require.NoError(t, err)
	assert.Equal(t, store.Dir(), filepath.Dir(hashFile))
	assert.FileExists(t, hashFile)

	expected, err := v.GetHashFilePath(file)
	require.NoError(t, err)
	assert.Equal(t, expected, hashFile)

	require.NoError(t, v.Verify(file))

	content, err := v.VerifyAndRead(file)
	require.NoError(t, err)
	assert.Equal(t, "key = 1\n", string(content))

	writeFile(t, file, "key = 2\n")
	assert.ErrorIs(t, v.Verify(file), ErrMismatch)
}

func TestValidator_RecordExisting(t *testing.T) {
	v, _, files := newTestValidator(t, &SHA256{})
	file := filepath.Join(files, "a.txt")
	writeFile(t, file, "one")

	_, err := v.Record(file, false)
	require.NoError(t, err)

	_, err = v.Record(file, false)
	assert.ErrorIs(t, err, ErrHashFileExists)

	writeFile(t, file, "two")
	_, err = v.Record(file, true)
	require.NoError(t, err)
	assert.NoError(t, v.Verify(file))
}

func TestValidator_Verify_Errors(t *testing.T) {
	v, store, files := newTestValidator(t, &SHA256{})

	t.Run("not recorded", func(t *testing.T) {
		file := filepath.Join(files, "new.txt")
		writeFile(t, file, "x")
		assert.ErrorIs(t, v.Verify(file), ErrHashFileNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.Verify(filepath.Join(files, "missing.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(""), ErrInvalidFilePath)
	})

	t.Run("directory", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(files), ErrInvalidFilePath)
	})

	t.Run("record of another path", func(t *testing.T) {
		file := filepath.Join(files, "victim.txt")
		writeFile(t, file, "x")
		recordPath, err := store.RecordPath(file)
		require.NoError(t, err)
		forged := `{"schema_version": 1, "path": "/somewhere/else", "kind": "hash-manifest"}`
		require.NoError(t, os.WriteFile(recordPath, []byte(forged), 0o600))

		assert.ErrorIs(t, v.Verify(file), ErrHashCollision)
		_, err = v.Record(file, true)
		assert.ErrorIs(t, err, ErrHashCollision)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		file := filepath.Join(files, "algo.txt")
		writeFile(t, file, "x")
		other, err := New(&MockHashAlgorithm{}, store)
		require.NoError(t, err)
		_, err = other.Record(file, false)
		require.NoError(t, err)

		assert.ErrorIs(t, v.Verify(file), ErrInvalidJSONFormat)
	})

	t.Run("foreign record kind", func(t *testing.T) {
		file := filepath.Join(files, "kind.txt")
		writeFile(t, file, "x")
		require.NoError(t, store.Save(file, &artifactstore.Record{Kind: "other"}))
		assert.ErrorIs(t, v.Verify(file), ErrInvalidJSONFormat)
	})
}

func TestValidator_RecordOverwritesCorruptedWithForce(t *testing.T) {
	v, store, files := newTestValidator(t, &SHA256{})
	file := filepath.Join(files, "c.txt")
	writeFile(t, file, "x")

	recordPath, err := store.RecordPath(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(recordPath, []byte("garbage"), 0o600))

	_, err = v.Record(file, false)
	var corrupted *artifactstore.RecordCorruptedError
	assert.True(t, errors.As(err, &corrupted))

	_, err = v.Record(file, true)
	require.NoError(t, err)
	assert.NoError(t, v.Verify(file))
}

func TestValidator_VerifyRecorded(t *testing.T) {
	v, _, files := newTestValidator(t, &SHA256{})
	good := filepath.Join(files, "good.txt")
	bad := filepath.Join(files, "bad.txt")
	writeFile(t, good, "good")
	writeFile(t, bad, "bad")
	for _, f := range []string{good, bad} {
		_, err := v.Record(f, false)
		require.NoError(t, err)
	}
	writeFile(t, bad, "tampered")

	results, err := v.VerifyRecorded()
	require.NoError(t, err)
	require.Len(t, results, 2)

	byPath := map[string]error{}
	for _, r := range results {
		byPath[r.Path] = r.Err
	}
	assert.NoError(t, byPath[good])
	assert.ErrorIs(t, byPath[bad], ErrMismatch)
}

func TestHashManifest_Check(t *testing.T) {
	valid := newHashManifest("/a", 1, "abc", "sha256", time.Now())
	require.NoError(t, valid.check("sha256", "/a"))

	tests := []struct {
		name    string
		mutate  func(m *HashManifest)
		wantErr error
	}{
		{"version", func(m *HashManifest) { m.Version = "2.0" }, ErrUnsupportedVersion},
		{"format", func(m *HashManifest) { m.Format = "x" }, ErrInvalidJSONFormat},
		{"empty path", func(m *HashManifest) { m.File.Path = "" }, ErrInvalidJSONFormat},
		{"other path", func(m *HashManifest) { m.File.Path = "/b" }, ErrHashCollision},
		{"algorithm", func(m *HashManifest) { m.File.Hash.Algorithm = "sha512" }, ErrInvalidJSONFormat},
		{"empty hash", func(m *HashManifest) { m.File.Hash.Value = "" }, ErrInvalidJSONFormat},
		{"negative size", func(m *HashManifest) { m.File.Size = -1 }, ErrInvalidJSONFormat},
		{"timestamp", func(m *HashManifest) { m.Timestamp = time.Time{} }, ErrInvalidTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			assert.ErrorIs(t, m.check("sha256", "/a"), tt.wantErr)
		})
	}
}

func TestHashManifest_Matches(t *testing.T) {
	m := newHashManifest("/a", 3, "h", "sha256", time.Now())
	assert.True(t, m.matches(3, "h"))
	assert.False(t, m.matches(4, "h"))
	assert.False(t, m.matches(3, "g"))
}

func TestParseHashManifest(t *testing.T) {
	_, err := parseHashManifest([]byte("{"))
	assert.ErrorIs(t, err, ErrInvalidJSONFormat)

	recorded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*3600))
	data, err := json.Marshal(newHashManifest("/a", 3, "h", "sha256", recorded))
	require.NoError(t, err)
	m, err := parseHashManifest(data)
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.File.Size)
	assert.True(t, m.Timestamp.Equal(recorded))
	assert.Equal(t, time.UTC, m.Timestamp.Location())
}
