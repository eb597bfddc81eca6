package filevalidator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/isseis/go-path-filename/internal/artifactstore"
	"github.com/isseis/go-path-filename/internal/safefileio"
)

// FileValidator interface defines the basic file validation methods
type FileValidator interface {
	Record(filePath string, force bool) (string, error)
	Verify(filePath string) error
	VerifyAndRead(filePath string) ([]byte, error)
}

// Validator provides functionality to record and verify file hashes.
// It should be instantiated using the New function.
type Validator struct {
	algorithm HashAlgorithm
	store     *artifactstore.Store
}

var _ FileValidator = (*Validator)(nil)

// New initializes and returns a new Validator that keeps its hash manifests in store.
func New(algorithm HashAlgorithm, store *artifactstore.Store) (*Validator, error) {
	if algorithm == nil {
		return nil, ErrNilAlgorithm
	}
	if store == nil {
		return nil, ErrNilStore
	}
	return &Validator{algorithm: algorithm, store: store}, nil
}

// Algorithm returns the hash algorithm in use.
func (v *Validator) Algorithm() HashAlgorithm {
	return v.algorithm
}

// GetHashFilePath returns the path where the hash for the given file would be stored.
func (v *Validator) GetHashFilePath(filePath string) (string, error) {
	targetPath, err := validatePath(filePath)
	if err != nil {
		return "", err
	}
	return v.store.RecordPath(targetPath)
}

// Record calculates the hash of the file at filePath and saves it to the store.
// If force is true, an existing hash for the same file path is overwritten.
// A record belonging to another path always returns ErrHashCollision, regardless of force.
// It returns the path of the hash file.
func (v *Validator) Record(filePath string, force bool) (string, error) {
	targetPath, err := validatePath(filePath)
	if err != nil {
		return "", err
	}

	content, err := safefileio.SafeReadFile(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	hash, err := v.algorithm.Sum(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	_, err = v.store.Load(targetPath)
	switch {
	case err == nil:
		if !force {
			return "", fmt.Errorf("hash file already exists for %s: %w", targetPath, ErrHashFileExists)
		}
	case errors.Is(err, artifactstore.ErrPathCollision):
		return "", fmt.Errorf("%w: %v", ErrHashCollision, err)
	case errors.Is(err, artifactstore.ErrRecordNotFound):
	case force:
		slog.Warn("Overwriting unreadable hash file", slog.String("path", targetPath), slog.Any("error", err))
	default:
		return "", fmt.Errorf("failed to check existing hash file: %w", err)
	}

	manifest := newHashManifest(targetPath, int64(len(content)), hash, v.algorithm.Name(), time.Now())
	data, err := json.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := v.store.Save(targetPath, &artifactstore.Record{Kind: RecordKind, Data: data}); err != nil {
		return "", fmt.Errorf("failed to write hash manifest: %w", err)
	}

	return v.store.RecordPath(targetPath)
}

// Verify checks if the file at filePath matches its recorded hash.
// Returns ErrMismatch if the hashes don't match, or ErrHashFileNotFound if no hash is recorded.
func (v *Validator) Verify(filePath string) error {
	_, err := v.VerifyAndRead(filePath)
	return err
}

// VerifyAndRead verifies file integrity and returns the content that was
// hashed, so that callers never use content other than what was verified.
func (v *Validator) VerifyAndRead(filePath string) ([]byte, error) {
	targetPath, err := validatePath(filePath)
	if err != nil {
		return nil, err
	}

	content, err := safefileio.SafeReadFile(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	actualHash, err := v.algorithm.Sum(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	manifest, err := v.readManifest(targetPath)
	if err != nil {
		return nil, err
	}

	if !manifest.matches(int64(len(content)), actualHash) {
		return nil, ErrMismatch
	}

	return content, nil
}

// readManifest loads and validates the hash manifest recorded for targetPath.
func (v *Validator) readManifest(targetPath string) (HashManifest, error) {
	record, err := v.store.Load(targetPath)
	if err != nil {
		switch {
		case errors.Is(err, artifactstore.ErrRecordNotFound):
			return HashManifest{}, ErrHashFileNotFound
		case errors.Is(err, artifactstore.ErrPathCollision):
			return HashManifest{}, fmt.Errorf("%w: %v", ErrHashCollision, err)
		default:
			return HashManifest{}, fmt.Errorf("failed to read hash file: %w", err)
		}
	}

	if record.Kind != RecordKind {
		return HashManifest{}, fmt.Errorf("%w: record kind %q", ErrInvalidJSONFormat, record.Kind)
	}

	manifest, err := parseHashManifest(record.Data)
	if err != nil {
		return HashManifest{}, err
	}

	if err := manifest.check(v.algorithm.Name(), targetPath); err != nil {
		return HashManifest{}, err
	}

	return manifest, nil
}

// Result is the outcome of verifying one recorded file.
type Result struct {
	Path     string // Recorded file path, empty if it could not be recovered
	HashFile string // Record filename in the store
	Err      error  // nil if the file matches its recorded hash
}

// VerifyRecorded verifies every file that has a hash in the store. The file
// paths are recovered from the record filenames.
func (v *Validator) VerifyRecorded() ([]Result, error) {
	entries, err := v.store.List()
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		r := Result{Path: e.Path, HashFile: e.Filename, Err: e.Err}
		if r.Err == nil {
			r.Err = v.Verify(e.Path)
		}
		results = append(results, r)
	}
	return results, nil
}

// validatePath validates and normalizes the given file path.
func validatePath(filePath string) (string, error) {
	if filePath == "" {
		return "", ErrInvalidFilePath
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", err
	}

	fileInfo, err := os.Lstat(resolvedPath)
	if err != nil {
		return "", err
	}
	if !fileInfo.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, resolvedPath)
	}

	return resolvedPath, nil
}
