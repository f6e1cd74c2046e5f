package ui

import (
	"github.com/charmbracelet/lipgloss"
	"lunarview/internal/models"
)

// struct Palette is a theme's stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	id models.ThemeID

	title     lipgloss.Style
	card      lipgloss.Style
	text      lipgloss.Style
	secondary lipgloss.Style
	help      lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
}

// NewPalette builds a Palette from a theme's color set: background, card
// background, border, primary, text, secondary text and tertiary text.
func NewPalette(id models.ThemeID, bg, cardBg, border, primary, text, secondary, tertiary string) Palette {
	return Palette{
		id:    id,
		title: NewBold(primary).MarginBottom(1),
		card: lipgloss.NewStyle().
			Background(lipgloss.Color(cardBg)).
			Foreground(lipgloss.Color(text)).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(1, 2),
		text:      NewStyle(text),
		secondary: NewStyle(secondary),
		help:      NewEm(tertiary),
		ok:        NewBold("#04B575"),
		err:       NewBold("#FF5F5F"),
		warn:      NewStyle("#FFA500"),
	}
}

// ID returns the theme this palette belongs to.
func (p Palette) ID() models.ThemeID { return p.id }

func darkPalette() Palette {
	return NewPalette(models.ThemeDark,
		"#0f1729", "#1a2540", "#2a3a6b", "#6B7AFF", "#ffffff", "#A5B4FF", "#7B8FFF")
}

func lightPalette() Palette {
	return NewPalette(models.ThemeLight,
		"#f5f7fa", "#ffffff", "#e1e8ed", "#4f5fd8", "#1a1a1a", "#4a5568", "#718096")
}

func cosmicPalette() Palette {
	return NewPalette(models.ThemeCosmic,
		"#0a0118", "#1a0f2e", "#3d2b5f", "#a855f7", "#ffffff", "#c4b5fd", "#9333ea")
}

// PaletteFor returns the palette for a theme id, defaulting to dark.
func PaletteFor(id models.ThemeID) Palette {
	switch id {
	case models.ThemeLight:
		return lightPalette()
	case models.ThemeCosmic:
		return cosmicPalette()
	default:
		return darkPalette()
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
