package pathname

import (
	"fmt"
	"strings"
)

// Escape converts literal path text into filename text. Reserved characters
// become full-width, NUL becomes 〇, and table glyphs are prefixed with the
// escape quote. Everything else, including bytes that are not valid UTF-8,
// is copied unchanged.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	escapeTo(&b, text, nil)
	return b.String()
}

func escapeTo(b *strings.Builder, text string, st *Stats) {
	for i := 0; i < len(text); {
		r, size := decodeAt(text, i)
		if isInvalidByte(r, size) {
			b.WriteByte(text[i])
			i++
			continue
		}
		switch Classify(r) {
		case Reserved:
			sub, _ := Substitute(r)
			b.WriteRune(sub)
			st.substitution()
		case Nul:
			b.WriteRune(NulGlyph)
			st.nul()
		case TableChar:
			b.WriteRune(EscapeQuote)
			b.WriteRune(r)
			st.escape()
		default:
			b.WriteString(text[i : i+size])
		}
		i += size
	}
}

// Unescape is the inverse of Escape. It fails with ErrMalformedEscape when
// text contains something Escape never produces: an escape quote that is not
// followed by a table glyph, or a bare icon.
func Unescape(text string) (string, error) {
	out, _, err := scanLiteral(text, 0, false)
	if err != nil {
		return "", err
	}
	return out, nil
}

// scanLiteral decodes literal filename text of s starting at byte offset
// start. With stopAtSeparator it stops in front of the first separator glyph
// (／ or ＼). It returns the decoded text and the offset where it stopped.
func scanLiteral(s string, start int, stopAtSeparator bool) (string, int, error) {
	var b strings.Builder
	i := start
	for i < len(s) {
		r, size := decodeAt(s, i)
		if isInvalidByte(r, size) {
			b.WriteByte(s[i])
			i++
			continue
		}
		if r == EscapeQuote {
			lit, n, err := unquote(s, i)
			if err != nil {
				return "", i, err
			}
			b.WriteRune(lit)
			i += n
			continue
		}
		if orig, ok := Restore(r); ok {
			if stopAtSeparator && IsSeparator(orig) {
				break
			}
			b.WriteRune(orig)
			i += size
			continue
		}
		if isOSIcon(r) {
			return "", i, misplacedPair(s, i)
		}
		if isDirIcon(r) {
			return "", i, newDecodeError(s, i, ErrMalformedEscape, fmt.Sprintf("bare directory icon %q", r))
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String(), i, nil
}

// unquote decodes the escape sequence starting at offset i of s and returns
// the literal glyph and the number of bytes consumed.
func unquote(s string, i int) (rune, int, error) {
	_, size := decodeAt(s, i)
	next, nsize := decodeAt(s, i+size)
	if nsize == 0 {
		return 0, 0, newDecodeError(s, i, ErrMalformedEscape, "escape quote at end of input")
	}
	if isInvalidByte(next, nsize) || Classify(next) != TableChar {
		return 0, 0, newDecodeError(s, i, ErrMalformedEscape, fmt.Sprintf("escape quote followed by %q", s[i+size:i+size+nsize]))
	}
	return next, size + nsize, nil
}

// misplacedPair reports an OS icon at offset i of s that cannot start a
// template: unknown pairs are ErrUnknownIcon, known ones ErrMalformedEscape.
func misplacedPair(s string, i int) error {
	osIcon, size := decodeAt(s, i)
	dirIcon, dsize := decodeAt(s, i+size)
	entry, err := MatchIcon(osIcon, dirIcon)
	if err != nil {
		return newDecodeError(s, i, ErrUnknownIcon, fmt.Sprintf("icon pair %q", s[i:i+size+dsize]))
	}
	return newDecodeError(s, i, ErrMalformedEscape, fmt.Sprintf("%s icon pair inside a segment", entry))
}
