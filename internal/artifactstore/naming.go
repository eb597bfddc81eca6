package artifactstore

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/isseis/go-path-filename/internal/pathname"
)

const (
	// MaxFilenameLength defines the maximum record filename length (NAME_MAX - safety margin)
	MaxFilenameLength = 250
	// HashLength defines the number of characters to use from the SHA256 hash
	HashLength = 12
	// DefaultExtension is appended to every record filename.
	DefaultExtension = ".json"
)

// fallbackMarker starts every hash fallback name. The codec only ever writes
// the escape quote in front of a table glyph, so a marker followed by a
// base64 character can never be the encoding of a path.
const fallbackMarker = string(pathname.EscapeQuote)

// Name describes the record filename chosen for a path.
type Name struct {
	Filename       string // Final filename including the extension
	IsFallback     bool   // True when the encoded name was too long and a hash is used instead
	OriginalLength int    // Length of the path in bytes
	EncodedLength  int    // Length of Filename in bytes
}

// namer turns paths into record filenames and back.
type namer struct {
	codec *pathname.Codec
	ext   string
}

// MinFilenameLength is the smallest length limit a store with extension ext
// accepts: room for the extension plus a hash fallback name.
func MinFilenameLength(ext string) int {
	return len(fallbackMarker) + HashLength + len(ext)
}

func newNamer(ext string, maxLength int) (*namer, error) {
	if ext == "" || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	if maxLength <= 0 {
		maxLength = MaxFilenameLength
	}
	if maxLength < MinFilenameLength(ext) {
		return nil, fmt.Errorf("%w: %d bytes, extension %q needs at least %d",
			ErrFilenameLimitTooSmall, maxLength, ext, MinFilenameLength(ext))
	}
	limit := maxLength - len(ext)
	return &namer{
		codec: pathname.NewCodec(pathname.Options{MaxFilenameBytes: limit}),
		ext:   ext,
	}, nil
}

// nameFor returns the record filename for path, falling back to a hash of
// the path when the encoded form exceeds the length limit.
func (n *namer) nameFor(path string) (Name, error) {
	encoded, err := n.codec.ToFilename(path)
	if err == nil {
		filename := encoded + n.ext
		return Name{
			Filename:       filename,
			OriginalLength: len(path),
			EncodedLength:  len(filename),
		}, nil
	}
	if !errors.Is(err, pathname.ErrFilenameTooLong) {
		return Name{}, fmt.Errorf("failed to encode %q: %w", path, err)
	}

	filename := sha256Fallback(path) + n.ext
	return Name{
		Filename:       filename,
		IsFallback:     true,
		OriginalLength: len(path),
		EncodedLength:  len(filename),
	}, nil
}

// pathFor recovers the path from a record filename. ok is false for fallback
// names, whose path is only available from the record itself.
func (n *namer) pathFor(filename string) (path string, ok bool, err error) {
	stem, found := strings.CutSuffix(filename, n.ext)
	if !found {
		return "", false, fmt.Errorf("%q lacks extension %q", filename, n.ext)
	}
	if isFallbackStem(stem) {
		return "", false, nil
	}
	path, err = n.codec.ToPath(stem)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func isFallbackStem(stem string) bool {
	rest, found := strings.CutPrefix(stem, fallbackMarker)
	if !found || len(rest) != HashLength {
		return false
	}
	for _, c := range []byte(rest) {
		if !isBase64URL(c) {
			return false
		}
	}
	return true
}

func isBase64URL(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// sha256Fallback generates the SHA256-based stem used for long paths
func sha256Fallback(path string) string {
	hash := sha256.Sum256([]byte(path))
	hashStr := base64.URLEncoding.EncodeToString(hash[:])
	return fallbackMarker + hashStr[:HashLength]
}
