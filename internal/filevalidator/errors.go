// Package filevalidator records content hashes of files and verifies files
// against them. Hash manifests are kept in an artifactstore, one record per
// file, named after the file's path.
package filevalidator

import "errors"

var (
	// ErrMismatch indicates that the file content does not match the recorded hash during verification.
	ErrMismatch = errors.New("file content does not match the recorded hash")

	// ErrHashFileNotFound indicates that no hash has been recorded for the file.
	ErrHashFileNotFound = errors.New("hash file not found")

	// ErrHashFileExists indicates that a hash is already recorded and force was not given.
	ErrHashFileExists = errors.New("hash file already exists")

	// ErrHashCollision indicates that the record for a file belongs to a different file.
	ErrHashCollision = errors.New("hash file belongs to a different path")

	// ErrInvalidFilePath indicates that the specified file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrNilAlgorithm indicates that the algorithm is nil during Validator initialization.
	ErrNilAlgorithm = errors.New("algorithm cannot be nil")

	// ErrNilStore indicates that the store is nil during Validator initialization.
	ErrNilStore = errors.New("store cannot be nil")

	// ErrUnknownAlgorithm indicates an unsupported hash algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrInvalidJSONFormat indicates a hash manifest with missing or wrong fields.
	ErrInvalidJSONFormat = errors.New("invalid hash manifest format")

	// ErrUnsupportedVersion indicates a hash manifest version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported hash manifest version")

	// ErrInvalidTimestamp indicates a hash manifest without a timestamp.
	ErrInvalidTimestamp = errors.New("invalid hash manifest timestamp")
)
