package pathname

import (
	"fmt"
	"strings"
)

// Decode converts a filename produced by Encode back into the original path.
//
// It fails with ErrUnknownIcon for an icon pair the template table does not
// know, with ErrMalformedEscape for glyphs in positions the encoder never
// uses, and with ErrNonCanonical when the filename parses but differs from
// the encoding of the parsed path.
func Decode(filename string) (string, error) {
	path, err := parse(filename)
	if err != nil {
		return "", err
	}
	if canonical := Encode(path); canonical != filename {
		return "", newDecodeError(filename, 0, ErrNonCanonical, fmt.Sprintf("canonical form is %q", canonical))
	}
	return path, nil
}

func parse(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	// atBoundary is true where a path segment starts: at the beginning of
	// the input and right after a separator.
	atBoundary := true
	for i := 0; i < len(s); {
		r, size := decodeAt(s, i)
		switch {
		case isInvalidByte(r, size):
			b.WriteByte(s[i])
			i++
			atBoundary = false

		case isOSIcon(r):
			if !atBoundary {
				return "", misplacedPair(s, i)
			}
			expanded, end, err := parseTemplate(s, i)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			i = end
			atBoundary = false

		case r == EscapeQuote:
			lit, n, err := unquote(s, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(lit)
			i += n
			atBoundary = false

		case isDirIcon(r):
			return "", newDecodeError(s, i, ErrMalformedEscape, fmt.Sprintf("bare directory icon %q", r))

		default:
			if orig, ok := Restore(r); ok {
				b.WriteRune(orig)
				atBoundary = IsSeparator(orig)
			} else {
				b.WriteString(s[i : i+size])
				atBoundary = false
			}
			i += size
		}
	}
	return b.String(), nil
}

// parseTemplate decodes the icon pair at offset i of s and the placeholder
// value after it. It returns the expanded prefix and the end offset.
func parseTemplate(s string, i int) (string, int, error) {
	osIcon, size := decodeAt(s, i)
	dirIcon, dsize := decodeAt(s, i+size)
	entry, err := MatchIcon(osIcon, dirIcon)
	if err != nil {
		return "", 0, newDecodeError(s, i, ErrUnknownIcon, fmt.Sprintf("icon pair %q", s[i:i+size+dsize]))
	}

	valueStart := i + size + dsize
	value, end, err := scanLiteral(s, valueStart, true)
	if err != nil {
		return "", 0, err
	}
	if kind := entry.PlaceholderKind(); !kind.accepts(value) {
		return "", 0, newDecodeError(s, valueStart, ErrMalformedEscape,
			fmt.Sprintf("%q is not a valid %s value for %s", value, kind, entry))
	}
	return entry.Expand(value), end, nil
}
