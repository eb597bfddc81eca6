package pathname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	entries := Templates()
	require.Len(t, entries, 27)

	assert.Equal(t, "mac/home", entries[0].String())
	assert.Equal(t, "🍎🏠", entries[0].Icons())

	entries[0].Dir = Videos
	assert.Equal(t, Home, Templates()[0].Dir, "Templates must return a copy")
}

func TestTemplates_OnePlaceholderEach(t *testing.T) {
	for _, e := range Templates() {
		assert.NotEqual(t, LiteralSegment, e.PlaceholderKind(), e.String())
	}
}

func TestValidateTemplates(t *testing.T) {
	home := []Segment{Literal(""), Literal("home"), Placeholder(AnySegment)}

	err := validateTemplates([]TemplateEntry{
		{OS: Linux, Dir: Home, Pattern: home},
		{OS: Linux, Dir: Drive, Pattern: home},
	})
	assert.ErrorContains(t, err, "same pattern")

	err = validateTemplates([]TemplateEntry{
		{OS: Linux, Dir: Home, Pattern: []Segment{Literal(""), Literal("home")}},
	})
	assert.ErrorContains(t, err, "0 placeholders")
}

func TestMatchPrefix(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		entry    string
		value    string
		consumed int
		ok       bool
	}{
		{name: "linux home", path: "/home/bob/x", entry: "linux/home", value: "bob", consumed: 3, ok: true},
		{name: "longest wins", path: "/home/bob/Music/x", entry: "linux/music", value: "bob", consumed: 4, ok: true},
		{name: "app data beats home", path: "/home/bob/.local/share", entry: "linux/appdata", value: "bob", consumed: 5, ok: true},
		{name: "windows home beats drive", path: `C:\Users\bob`, entry: "windows/home", value: "bob", consumed: 3, ok: true},
		{name: "drive only", path: `E:\Users\bob`, entry: "windows/drive", value: "E", consumed: 1, ok: true},
		{name: "mac volume", path: "/Volumes/usb", entry: "mac/drive", value: "usb", consumed: 3, ok: true},
		{name: "no template", path: "/usr/bin", ok: false},
		{name: "empty user", path: "/home//x", ok: false},
		{name: "mixed separators", path: `/home\bob`, ok: false},
		{name: "drive with suffix", path: "C:x", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, seps := splitPath(tt.path)
			m, ok := MatchPrefix(segs, seps)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.entry, m.Entry.String())
			assert.Equal(t, tt.value, m.Value)
			assert.Equal(t, tt.consumed, m.Consumed)
		})
	}
}

func TestMatchPrefix_TieGoesToFirstDeclared(t *testing.T) {
	entries := []TemplateEntry{
		{OS: Linux, Dir: Home, Pattern: []Segment{Literal("x"), Placeholder(AnySegment)}},
		{OS: Linux, Dir: Drive, Pattern: []Segment{Placeholder(AnySegment), Literal("y")}},
	}
	segs, seps := splitPath("x/y")

	m, ok := matchPrefixIn(entries, segs, seps)
	require.True(t, ok)
	assert.Equal(t, Home, m.Entry.Dir)
	assert.Equal(t, "y", m.Value)

	entries[0], entries[1] = entries[1], entries[0]
	m, ok = matchPrefixIn(entries, segs, seps)
	require.True(t, ok)
	assert.Equal(t, Drive, m.Entry.Dir)
	assert.Equal(t, "x", m.Value)
}

func TestMatchIcon(t *testing.T) {
	e, err := MatchIcon('💠', '🎵')
	require.NoError(t, err)
	assert.Equal(t, Windows, e.OS)
	assert.Equal(t, Music, e.Dir)

	_, err = MatchIcon('🍎', 'x')
	assert.ErrorIs(t, err, ErrUnknownIcon)

	_, err = MatchIcon('🏠', '🍎')
	assert.ErrorIs(t, err, ErrUnknownIcon)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		os, dir rune
		value   string
		want    string
	}{
		{'🍎', '🏠', "alice", "/Users/alice"},
		{'🍎', '💾', "alice", "/Users/alice/Library/Application Support"},
		{'🐧', '🥞', "usb", "/media/usb"},
		{'🐧', '🎥', "bob", "/home/bob/Videos"},
		{'💠', '🥞', "D", "D:"},
		{'💠', '📄', "carol", `C:\Users\carol\Documents`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e, err := MatchIcon(tt.os, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Expand(tt.value))
		})
	}
}

func TestSegmentKindAccepts(t *testing.T) {
	assert.True(t, AnySegment.accepts("bob"))
	assert.False(t, AnySegment.accepts(""))
	assert.False(t, AnySegment.accepts("a/b"))
	assert.True(t, DriveLetter.accepts("C"))
	assert.True(t, DriveLetter.accepts("é"))
	assert.False(t, DriveLetter.accepts("CD"))
	assert.False(t, DriveLetter.accepts("1"))
	assert.False(t, DriveLetter.accepts(""))
	assert.False(t, LiteralSegment.accepts("x"))
}
