package pathname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	a := Analyze("/home/alice/Music/a:b/‛🍎\x00.mp3")

	assert.Equal(t, "🐧🎵alice／a：b／‛‛‛🍎〇.mp3", a.EncodedName)
	assert.Equal(t, len(a.EncodedName), a.EncodedLength)
	assert.Equal(t, len("/home/alice/Music/a:b/‛🍎\x00.mp3"), a.OriginalLength)
	assert.Equal(t, 1, a.IconPairs)
	assert.Equal(t, []string{"linux/music"}, a.Templates)
	assert.Equal(t, 3, a.Substitutions) // two separators and a colon
	assert.Equal(t, 1, a.NulGlyphs)
	assert.Equal(t, 2, a.Escapes)
	assert.InDelta(t, float64(a.EncodedLength)/float64(a.OriginalLength), a.ExpansionRatio, 1e-9)
}

func TestAnalyze_EmptyPath(t *testing.T) {
	a := Analyze("")
	assert.Equal(t, "", a.EncodedName)
	assert.Zero(t, a.ExpansionRatio)
	assert.Empty(t, a.Templates)
}

func TestAnalyze_SeveralTemplates(t *testing.T) {
	a := Analyze(`C:\/home/bob`)
	assert.Equal(t, []string{"windows/drive", "linux/home"}, a.Templates)
	assert.Equal(t, 2, a.IconPairs)
}
