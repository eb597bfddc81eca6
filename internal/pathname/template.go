package pathname

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind tells how a pattern segment matches a path segment.
type SegmentKind int

const (
	// LiteralSegment matches its Text exactly.
	LiteralSegment SegmentKind = iota
	// AnySegment matches any non-empty segment, such as a user or volume name.
	AnySegment
	// DriveLetter matches a segment of the form "X:" where X is a single
	// letter. The bound value is the letter alone.
	DriveLetter
)

func (k SegmentKind) String() string {
	switch k {
	case LiteralSegment:
		return "literal"
	case AnySegment:
		return "any"
	case DriveLetter:
		return "drive"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// Segment is one element of a template pattern.
type Segment struct {
	Kind SegmentKind
	Text string // Only for LiteralSegment
}

// Literal returns a segment matching text exactly.
func Literal(text string) Segment {
	return Segment{Kind: LiteralSegment, Text: text}
}

// Placeholder returns a segment binding a value of the given kind.
func Placeholder(kind SegmentKind) Segment {
	return Segment{Kind: kind}
}

// match reports whether seg matches the path segment s and returns the
// bound value for placeholders.
func (seg Segment) match(s string) (string, bool) {
	switch seg.Kind {
	case LiteralSegment:
		return "", s == seg.Text
	case AnySegment:
		return s, s != ""
	case DriveLetter:
		letter, size := utf8.DecodeRuneInString(s)
		if size == 0 || s[size:] != ":" || !unicode.IsLetter(letter) {
			return "", false
		}
		return s[:size], true
	default:
		return "", false
	}
}

// accepts reports whether value is something the placeholder can bind.
func (k SegmentKind) accepts(value string) bool {
	switch k {
	case AnySegment:
		return value != "" && !strings.ContainsAny(value, `/\`)
	case DriveLetter:
		letter, size := utf8.DecodeRuneInString(value)
		return size > 0 && size == len(value) && unicode.IsLetter(letter)
	default:
		return false
	}
}

// OSFamily identifies the operating system a template belongs to.
type OSFamily struct {
	Name      string
	Icon      rune
	Separator rune // Native path separator
}

// DirType identifies the kind of well-known directory a template stands for.
type DirType struct {
	Name string
	Icon rune
}

// OS families.
var (
	MacOS   = OSFamily{Name: "mac", Icon: '🍎', Separator: '/'}
	Linux   = OSFamily{Name: "linux", Icon: '🐧', Separator: '/'}
	Windows = OSFamily{Name: "windows", Icon: '💠', Separator: '\\'}
)

// Directory types.
var (
	Home      = DirType{Name: "home", Icon: '🏠'}
	Drive     = DirType{Name: "drive", Icon: '🥞'}
	AppData   = DirType{Name: "appdata", Icon: '💾'}
	Music     = DirType{Name: "music", Icon: '🎵'}
	Desktop   = DirType{Name: "desktop", Icon: '🔝'}
	Documents = DirType{Name: "documents", Icon: '📄'}
	Downloads = DirType{Name: "downloads", Icon: '⏬'}
	Pictures  = DirType{Name: "pictures", Icon: '🎨'}
	Videos    = DirType{Name: "videos", Icon: '🎥'}
)

var (
	osFamilies = []OSFamily{MacOS, Linux, Windows}
	dirTypes   = []DirType{Home, Drive, AppData, Music, Desktop, Documents, Downloads, Pictures, Videos}
)

// TemplateEntry maps a well-known directory prefix to an icon pair.
type TemplateEntry struct {
	OS      OSFamily
	Dir     DirType
	Pattern []Segment
}

// Icons returns the two-glyph icon pair written for this entry.
func (e *TemplateEntry) Icons() string {
	return string([]rune{e.OS.Icon, e.Dir.Icon})
}

func (e *TemplateEntry) String() string {
	return e.OS.Name + "/" + e.Dir.Name
}

// PlaceholderKind returns the kind of the entry's single placeholder segment.
func (e *TemplateEntry) PlaceholderKind() SegmentKind {
	for _, seg := range e.Pattern {
		if seg.Kind != LiteralSegment {
			return seg.Kind
		}
	}
	return LiteralSegment
}

// Expand rebuilds the path prefix the entry stands for, with value bound to
// the placeholder and segments joined by the OS family's native separator.
func (e *TemplateEntry) Expand(value string) string {
	var b strings.Builder
	for i, seg := range e.Pattern {
		if i > 0 {
			b.WriteRune(e.OS.Separator)
		}
		switch seg.Kind {
		case LiteralSegment:
			b.WriteString(seg.Text)
		case AnySegment:
			b.WriteString(value)
		case DriveLetter:
			b.WriteString(value)
			b.WriteByte(':')
		}
	}
	return b.String()
}

// match tries the entry against the start of segments. separators[i] is the
// separator following segments[i].
func (e *TemplateEntry) match(segments []string, separators []rune) (string, bool) {
	if len(e.Pattern) > len(segments) || len(e.Pattern)-1 > len(separators) {
		return "", false
	}
	var value string
	for i, seg := range e.Pattern {
		if i > 0 && separators[i-1] != e.OS.Separator {
			return "", false
		}
		v, ok := seg.match(segments[i])
		if !ok {
			return "", false
		}
		if seg.Kind != LiteralSegment {
			value = v
		}
	}
	return value, true
}

// familyLayout describes where an OS family keeps its well-known directories.
type familyLayout struct {
	os      OSFamily
	home    []Segment
	drive   []Segment
	appData []string // Relative to home
}

var layouts = []familyLayout{
	{
		os:      MacOS,
		home:    []Segment{Literal(""), Literal("Users"), Placeholder(AnySegment)},
		drive:   []Segment{Literal(""), Literal("Volumes"), Placeholder(AnySegment)},
		appData: []string{"Library", "Application Support"},
	},
	{
		os:      Linux,
		home:    []Segment{Literal(""), Literal("home"), Placeholder(AnySegment)},
		drive:   []Segment{Literal(""), Literal("media"), Placeholder(AnySegment)},
		appData: []string{".local", "share"},
	},
	{
		os:      Windows,
		home:    []Segment{Literal("C:"), Literal("Users"), Placeholder(AnySegment)},
		drive:   []Segment{Placeholder(DriveLetter)},
		appData: []string{"AppData", "Local"},
	},
}

// userFolders are the per-user folders every OS family keeps under home.
var userFolders = []struct {
	dir  DirType
	name string
}{
	{Music, "Music"},
	{Desktop, "Desktop"},
	{Documents, "Documents"},
	{Downloads, "Downloads"},
	{Pictures, "Pictures"},
	{Videos, "Videos"},
}

var (
	templates = buildTemplates()
	iconIndex = buildIconIndex(templates)
)

func underHome(home []Segment, names ...string) []Segment {
	p := make([]Segment, 0, len(home)+len(names))
	p = append(p, home...)
	for _, n := range names {
		p = append(p, Literal(n))
	}
	return p
}

func buildTemplates() []TemplateEntry {
	var out []TemplateEntry
	for _, l := range layouts {
		out = append(out,
			TemplateEntry{OS: l.os, Dir: Home, Pattern: l.home},
			TemplateEntry{OS: l.os, Dir: Drive, Pattern: l.drive},
			TemplateEntry{OS: l.os, Dir: AppData, Pattern: underHome(l.home, l.appData...)},
		)
		for _, f := range userFolders {
			out = append(out, TemplateEntry{OS: l.os, Dir: f.dir, Pattern: underHome(l.home, f.name)})
		}
	}
	if err := validateTemplates(out); err != nil {
		panic("pathname: " + err.Error())
	}
	return out
}

func validateTemplates(entries []TemplateEntry) error {
	seen := make(map[string]string, len(entries))
	for i := range entries {
		e := &entries[i]
		placeholders := 0
		var key strings.Builder
		key.WriteString(e.OS.Name)
		for _, seg := range e.Pattern {
			if seg.Kind != LiteralSegment {
				placeholders++
			}
			fmt.Fprintf(&key, "%c%d:%s", e.OS.Separator, seg.Kind, seg.Text)
		}
		if placeholders != 1 {
			return fmt.Errorf("template %s has %d placeholders, want 1", e, placeholders)
		}
		if prev, dup := seen[key.String()]; dup {
			return fmt.Errorf("templates %s and %s have the same pattern", prev, e)
		}
		seen[key.String()] = e.String()
	}
	return nil
}

type iconPair [2]rune

func buildIconIndex(entries []TemplateEntry) map[iconPair]int {
	idx := make(map[iconPair]int, len(entries))
	for i := range entries {
		key := iconPair{entries[i].OS.Icon, entries[i].Dir.Icon}
		if _, dup := idx[key]; dup {
			panic(fmt.Sprintf("pathname: icon pair %s registered twice", entries[i].Icons()))
		}
		idx[key] = i
	}
	return idx
}

// Templates returns a copy of the template table in declaration order.
func Templates() []TemplateEntry {
	out := make([]TemplateEntry, len(templates))
	copy(out, templates)
	return out
}

// Match is the result of a successful MatchPrefix.
type Match struct {
	Entry    *TemplateEntry
	Value    string // Text bound to the placeholder
	Consumed int    // Number of path segments covered
}

// MatchPrefix finds the template covering the most leading segments.
// separators[i] is the separator between segments[i] and segments[i+1].
// When several templates cover the same number of segments the one declared
// first wins.
func MatchPrefix(segments []string, separators []rune) (Match, bool) {
	return matchPrefixIn(templates, segments, separators)
}

func matchPrefixIn(entries []TemplateEntry, segments []string, separators []rune) (Match, bool) {
	var best Match
	found := false
	for i := range entries {
		e := &entries[i]
		value, ok := e.match(segments, separators)
		if !ok {
			continue
		}
		if !found || len(e.Pattern) > best.Consumed {
			best = Match{Entry: e, Value: value, Consumed: len(e.Pattern)}
			found = true
		}
	}
	return best, found
}

// MatchIcon looks up the template registered for an icon pair.
func MatchIcon(osIcon, dirIcon rune) (*TemplateEntry, error) {
	i, ok := iconIndex[iconPair{osIcon, dirIcon}]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIcon, string([]rune{osIcon, dirIcon}))
	}
	return &templates[i], nil
}

func isOSIcon(r rune) bool {
	for _, f := range osFamilies {
		if f.Icon == r {
			return true
		}
	}
	return false
}

func isDirIcon(r rune) bool {
	for _, d := range dirTypes {
		if d.Icon == r {
			return true
		}
	}
	return false
}
