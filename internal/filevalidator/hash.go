package filevalidator

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// HashAlgorithm defines the behavior of a hash calculation algorithm.
// It allows for efficient streaming processing by accepting an io.Reader.
type HashAlgorithm interface {
	// Name returns the name of the algorithm (e.g., "sha256").
	Name() string

	// Sum calculates the hash value of the data read from r and returns it as a hexadecimal string.
	Sum(r io.Reader) (string, error)
}

// SHA256 implements the HashAlgorithm interface for SHA-256 hash calculations.
type SHA256 struct{}

// Name returns the algorithm name "sha256".
func (s *SHA256) Name() string {
	return "sha256"
}

// Sum calculates the SHA-256 hash value of the data read from r.
func (s *SHA256) Sum(r io.Reader) (string, error) {
	return sum(sha256.New(), r)
}

// SHA512 implements the HashAlgorithm interface for SHA-512 hash calculations.
type SHA512 struct{}

// Name returns the algorithm name "sha512".
func (s *SHA512) Name() string {
	return "sha512"
}

// Sum calculates the SHA-512 hash value of the data read from r.
func (s *SHA512) Sum(r io.Reader) (string, error) {
	return sum(sha512.New(), r)
}

func sum(h hash.Hash, r io.Reader) (string, error) {
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// AlgorithmByName returns the HashAlgorithm with the given name.
func AlgorithmByName(name string) (HashAlgorithm, error) {
	switch name {
	case "", "sha256":
		return &SHA256{}, nil
	case "sha512":
		return &SHA512{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
