package filevalidator

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// HashManifestVersion is the current version of the hash manifest format
	HashManifestVersion = "1.0"
	// HashManifestFormat is the current format of the hash manifest
	HashManifestFormat = "file-hash"
	// RecordKind marks artifact records holding a hash manifest.
	RecordKind = "hash-manifest"
)

// HashManifest is the payload of a hash-manifest record.
type HashManifest struct {
	Version   string    `json:"version"`
	Format    string    `json:"format"`
	Timestamp time.Time `json:"timestamp"`
	File      FileInfo  `json:"file"`
}

// FileInfo identifies the recorded file and its content.
type FileInfo struct {
	Path string   `json:"path"`
	Size int64    `json:"size"`
	Hash HashInfo `json:"hash"`
}

// HashInfo defines hash information
type HashInfo struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

func newHashManifest(path string, size int64, hash, algorithm string, now time.Time) HashManifest {
	return HashManifest{
		Version:   HashManifestVersion,
		Format:    HashManifestFormat,
		Timestamp: now.UTC(),
		File: FileInfo{
			Path: path,
			Size: size,
			Hash: HashInfo{Algorithm: algorithm, Value: hash},
		},
	}
}

// parseHashManifest decodes a record payload. Syntax errors report the
// offending offset.
func parseHashManifest(data []byte) (HashManifest, error) {
	var m HashManifest
	if err := json.Unmarshal(data, &m); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return HashManifest{}, fmt.Errorf("%w: invalid JSON syntax at offset %d", ErrInvalidJSONFormat, syntaxErr.Offset)
		}
		return HashManifest{}, fmt.Errorf("%w: %v", ErrInvalidJSONFormat, err)
	}
	return m, nil
}

// check validates a manifest read for targetPath with algorithm algoName.
func (m HashManifest) check(algoName, targetPath string) error {
	switch {
	case m.Version != HashManifestVersion:
		return fmt.Errorf("%w: version %s", ErrUnsupportedVersion, m.Version)
	case m.Format != HashManifestFormat:
		return fmt.Errorf("%w: format %s", ErrInvalidJSONFormat, m.Format)
	case m.File.Path == "":
		return fmt.Errorf("%w: empty file path", ErrInvalidJSONFormat)
	case m.File.Path != targetPath:
		return fmt.Errorf("%w: manifest is for %s", ErrHashCollision, m.File.Path)
	case m.File.Hash.Algorithm != algoName:
		return fmt.Errorf("%w: recorded with %s, verifying with %s", ErrInvalidJSONFormat, m.File.Hash.Algorithm, algoName)
	case m.File.Hash.Value == "":
		return fmt.Errorf("%w: empty hash value", ErrInvalidJSONFormat)
	case m.File.Size < 0:
		return fmt.Errorf("%w: negative size %d", ErrInvalidJSONFormat, m.File.Size)
	case m.Timestamp.IsZero():
		return fmt.Errorf("%w: zero timestamp", ErrInvalidTimestamp)
	}
	return nil
}

// matches reports whether content of the given size and hash is what the
// manifest recorded.
func (m HashManifest) matches(size int64, hash string) bool {
	return m.File.Size == size && m.File.Hash.Value == hash
}
