// Package styles provides colours and text styles for curator's CLI output.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for CLI output.
type Theme struct {
	// Primary is the accent colour for headings.
	Primary lipgloss.Color

	// Secondary highlights identifiers such as hashes and ids.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for labels and less important text.
	Muted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for section headers.
	Title lipgloss.Style

	// Label style for the left column of key/value output.
	Label lipgloss.Style

	// Value style for plain values.
	Value lipgloss.Style

	// ID style for hashes, artifact ids and version labels.
	ID lipgloss.Style

	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Value: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ID: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Heading renders a title underlined to its own width.
func (s *Styles) Heading(title string) string {
	return s.Title.Render(title) + "\n" + s.Muted.Render(strings.Repeat("=", lipgloss.Width(title)))
}

// KeyValue renders one "label: value" line with the label padded to width.
func (s *Styles) KeyValue(label string, width int, value any) string {
	padded := fmt.Sprintf("%-*s", width, label+":")
	return "  " + s.Label.Render(padded) + " " + s.Value.Render(fmt.Sprint(value))
}

// ShortHash renders the first n characters of a hex digest.
func (s *Styles) ShortHash(hash string, n int) string {
	if hash == "" {
		return s.Muted.Render("(none)")
	}
	if n > 0 && len(hash) > n {
		hash = hash[:n]
	}
	return s.ID.Render(hash)
}
