// Package styles provides the lipgloss v2 styles used to draw toasts in the
// terminal.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/toast/internal/core/toast"
)

// tintAmount is how far a toast's background is pulled from the palette
// background toward its variant color.
const tintAmount = 0.12

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	ToastTitleStyle   lipgloss.Style
	ToastMessageStyle lipgloss.Style
	ToastActionStyle  lipgloss.Style

	HelpStyle   lipgloss.Style
	StatusStyle lipgloss.Style

	toastStyles map[toast.Variant]lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ToastTitleStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true)
	ToastMessageStyle = lipgloss.NewStyle().
		Foreground(p.Subtle)
	ToastActionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Highlight).
		Foreground(p.Base).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Subtle)
	StatusStyle = lipgloss.NewStyle().
		Foreground(p.Highlight)

	toastStyles = make(map[toast.Variant]lipgloss.Style, len(toast.Variants()))
	for _, v := range toast.Variants() {
		accent := p.Accent(v)
		toastStyles[v] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(Tint(p.Base, accent, tintAmount)).
			Padding(0, 1)
	}
}

// VariantColor returns the accent color of a variant in the active
// palette.
func VariantColor(v toast.Variant) color.Color {
	return CurrentPalette.Accent(v)
}

// ToastStyle returns the container style of a toast. Unknown variants are
// drawn as neutral.
func ToastStyle(v toast.Variant) lipgloss.Style {
	if s, ok := toastStyles[v]; ok {
		return s
	}
	return toastStyles[toast.VariantNeutral]
}

// Tint blends base toward accent by t in the Lab color space. If either
// color cannot be converted, base is returned.
func Tint(base, accent color.Color, t float64) color.Color {
	b, ok := colorful.MakeColor(base)
	if !ok {
		return base
	}
	a, ok := colorful.MakeColor(accent)
	if !ok {
		return base
	}
	return lipgloss.Color(b.BlendLab(a, t).Clamped().Hex())
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
