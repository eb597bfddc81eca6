package pathname

import "strings"

// splitPath cuts path at every separator. len(separators) is always
// len(segments)-1 and separators[i] follows segments[i].
func splitPath(path string) ([]string, []rune) {
	var (
		segments   []string
		separators []rune
	)
	start := 0
	for i := 0; i < len(path); i++ {
		if c := path[i]; c == '/' || c == '\\' {
			segments = append(segments, path[start:i])
			separators = append(separators, rune(c))
			start = i + 1
		}
	}
	segments = append(segments, path[start:])
	return segments, separators
}

// Encode converts path into a single filename component. It is total: every
// string, including the empty string and strings that are not valid UTF-8,
// has an encoding, and different paths never share one.
func Encode(path string) string {
	return encode(path, nil)
}

func encode(path string, st *Stats) string {
	segments, separators := splitPath(path)

	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(segments); {
		next := i + 1
		if m, ok := MatchPrefix(segments[i:], separators[i:]); ok {
			b.WriteString(m.Entry.Icons())
			escapeTo(&b, m.Value, st)
			st.template(m.Entry)
			next = i + m.Consumed
		} else {
			escapeTo(&b, segments[i], st)
		}
		if next-1 < len(separators) {
			sub, _ := Substitute(separators[next-1])
			b.WriteRune(sub)
			st.substitution()
		}
		i = next
	}
	return b.String()
}
