package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		assert.False(t, seen[string(c)], "duplicate accent: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_Heading(t *testing.T) {
	out := DefaultStyles().Heading("Versions")

	assert.Contains(t, out, "Versions")
	assert.Contains(t, out, "========")
}

func TestStyles_KeyValue(t *testing.T) {
	out := DefaultStyles().KeyValue("Size", 8, 42)

	assert.Contains(t, out, "Size:")
	assert.Contains(t, out, "42")
}

func TestStyles_ShortHash(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.ShortHash("0123456789abcdef", 8), "01234567")
	assert.NotContains(t, s.ShortHash("0123456789abcdef", 8), "89abcdef")
	assert.Contains(t, s.ShortHash("", 8), "(none)")
	assert.Contains(t, s.ShortHash("abc", 0), "abc")
}
