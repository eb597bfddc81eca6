package pathname

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Class is the category a rune falls into for escaping purposes.
type Class int

// Character classes. Every rune belongs to exactly one of them.
const (
	// Plain runes are copied to the filename unchanged.
	Plain Class = iota
	// Reserved runes are path separators or characters forbidden in filenames on
	// common filesystems; they are replaced by their full-width forms.
	Reserved
	// Nul is U+0000, replaced by NulGlyph.
	Nul
	// TableChar runes are the codec's own output alphabet and must be escaped
	// when they appear literally in a path.
	TableChar
)

func (c Class) String() string {
	switch c {
	case Plain:
		return "plain"
	case Reserved:
		return "reserved"
	case Nul:
		return "nul"
	case TableChar:
		return "table"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

const (
	// NulGlyph stands for U+0000 in filenames.
	NulGlyph = '〇'
	// EscapeQuote precedes any table glyph that occurs literally in a path.
	EscapeQuote = '‛'
)

// reservedChars lists the characters that cannot appear in a filename on at
// least one common filesystem.
const reservedChars = `\/:*?"<>|`

var (
	substitutes = buildSubstitutes()
	restores    = invert(substitutes)
	tableChars  = buildTableChars()
)

// buildSubstitutes maps every reserved character to its full-width form.
func buildSubstitutes() map[rune]rune {
	m := make(map[rune]rune, len(reservedChars)+1)
	for _, r := range reservedChars {
		wide := width.LookupRune(r).Wide()
		if width.LookupRune(wide).Kind() != width.EastAsianFullwidth {
			panic(fmt.Sprintf("pathname: no full-width form for %q", r))
		}
		m[r] = wide
	}
	m[0] = NulGlyph
	return m
}

func invert(m map[rune]rune) map[rune]rune {
	inv := make(map[rune]rune, len(m))
	for k, v := range m {
		if _, dup := inv[v]; dup {
			panic(fmt.Sprintf("pathname: substitute %q used twice", v))
		}
		inv[v] = k
	}
	return inv
}

func buildTableChars() map[rune]struct{} {
	m := make(map[rune]struct{}, len(substitutes)+len(osFamilies)+len(dirTypes)+1)
	for _, v := range substitutes {
		m[v] = struct{}{}
	}
	for _, f := range osFamilies {
		m[f.Icon] = struct{}{}
	}
	for _, d := range dirTypes {
		m[d.Icon] = struct{}{}
	}
	m[EscapeQuote] = struct{}{}
	return m
}

// Classify returns the class of r.
func Classify(r rune) Class {
	if r == 0 {
		return Nul
	}
	if _, ok := substitutes[r]; ok {
		return Reserved
	}
	if _, ok := tableChars[r]; ok {
		return TableChar
	}
	return Plain
}

// IsSeparator reports whether r separates path segments.
func IsSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// Substitute returns the glyph that stands for a Reserved or Nul rune.
func Substitute(r rune) (rune, bool) {
	s, ok := substitutes[r]
	return s, ok
}

// Restore is the inverse of Substitute.
func Restore(r rune) (rune, bool) {
	s, ok := restores[r]
	return s, ok
}

// TableGlyphs returns every rune of class TableChar.
func TableGlyphs() []rune {
	out := make([]rune, 0, len(tableChars))
	for r := range tableChars {
		out = append(out, r)
	}
	return out
}

// decodeAt returns the rune starting at byte offset i of s. size is 0 at the
// end of s. An invalid byte is reported as utf8.RuneError with size 1.
func decodeAt(s string, i int) (rune, int) {
	if i >= len(s) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s[i:])
}

// isInvalidByte reports whether the rune/size pair returned by decodeAt is a
// byte that is not valid UTF-8. Such bytes are copied through verbatim.
func isInvalidByte(r rune, size int) bool {
	return r == utf8.RuneError && size == 1
}
