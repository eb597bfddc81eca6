package pathname

import (
	"errors"
	"fmt"
)

// Static errors reported by the decoder and the length-limited encoder.
var (
	// ErrUnknownIcon indicates an icon pair that is not registered in the template table.
	ErrUnknownIcon = errors.New("unknown icon")

	// ErrMalformedEscape indicates an escape quote, icon or placeholder in a position the encoder never produces.
	ErrMalformedEscape = errors.New("malformed escape")

	// ErrNonCanonical indicates a filename that decodes but is not what the encoder would produce for the result.
	ErrNonCanonical = errors.New("filename is not in canonical form")

	// ErrFilenameTooLong indicates an encoded filename exceeding the codec's configured byte limit.
	ErrFilenameTooLong = errors.New("encoded filename too long")
)

// DecodeError describes why a filename could not be converted back to a path.
type DecodeError struct {
	Input  string // The filename being decoded
	Offset int    // Byte offset of the offending glyph in Input
	Detail string // Optional human readable detail
	Err    error  // One of ErrUnknownIcon, ErrMalformedEscape, ErrNonCanonical
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("decode %q at offset %d: %v: %s", e.Input, e.Offset, e.Err, e.Detail)
	}
	return fmt.Sprintf("decode %q at offset %d: %v", e.Input, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError is returned by a length-limited Codec when a path cannot be encoded.
type EncodeError struct {
	Path   string
	Length int // Encoded length in bytes
	Limit  int // Configured limit in bytes
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %q: %v (%d bytes, limit %d)", e.Path, e.Err, e.Length, e.Limit)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(input string, offset int, err error, detail string) *DecodeError {
	return &DecodeError{Input: input, Offset: offset, Err: err, Detail: detail}
}
