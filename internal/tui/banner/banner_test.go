package banner

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fallback(t *testing.T) *Banner {
	t.Helper()
	b, err := New([]string{filepath.Join(t.TempDir(), "missing.ttf")})
	require.NoError(t, err)
	return b
}

func TestRenderShape(t *testing.T) {
	b := fallback(t)

	out := b.Render("bhu", 6, 80)
	require.NotEmpty(t, out)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	width := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, runewidth.StringWidth(l))
	}
	assert.LessOrEqual(t, width, 80)
	assert.True(t, strings.ContainsAny(out, "█▀▄"), "some pixels are lit")
}

func TestRenderClampsWidth(t *testing.T) {
	b := fallback(t)

	out := b.Render("bhavati", 8, 10)
	for _, l := range strings.Split(out, "\n") {
		assert.Equal(t, 10, runewidth.StringWidth(l))
	}
}

func TestRenderCached(t *testing.T) {
	b := fallback(t)

	first := b.Render("kf", 4, 40)
	assert.Len(t, b.cache, 1)
	assert.Equal(t, first, b.Render("kf", 4, 40))
	assert.Len(t, b.cache, 1)
}

func TestUnsupported(t *testing.T) {
	b := fallback(t)

	assert.True(t, b.Supports("bhū"))
	assert.False(t, b.Supports("भू"), "the Go font has no Devanagari")
	assert.False(t, b.Supports(""))
	assert.Empty(t, b.Render("भू", 4, 40))
	assert.Empty(t, b.Render("bhu", 0, 40))
}
