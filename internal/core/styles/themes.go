package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toast/internal/core/toast"
)

// Palette holds the colors a toast is drawn with: one accent per variant
// plus the surrounding text and surface colors.
type Palette struct {
	Text      color.Color // toast titles
	Subtle    color.Color // messages, help bar
	Base      color.Color // terminal background the toast tint starts from
	Highlight color.Color // action badge, status line

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color
	Neutral color.Color
}

// Accent returns the border color for a variant. Unknown variants use the
// neutral accent.
func (p Palette) Accent(v toast.Variant) color.Color {
	switch v {
	case toast.VariantSuccess:
		return p.Success
	case toast.VariantError:
		return p.Error
	case toast.VariantWarning:
		return p.Warning
	case toast.VariantInfo:
		return p.Info
	default:
		return p.Neutral
	}
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// hexPalette is the source form of a built-in theme.
type hexPalette struct {
	text, subtle, base, highlight        string
	success, err, warning, info, neutral string
}

func (h hexPalette) palette() Palette {
	return Palette{
		Text:      lipgloss.Color(h.text),
		Subtle:    lipgloss.Color(h.subtle),
		Base:      lipgloss.Color(h.base),
		Highlight: lipgloss.Color(h.highlight),
		Success:   lipgloss.Color(h.success),
		Error:     lipgloss.Color(h.err),
		Warning:   lipgloss.Color(h.warning),
		Info:      lipgloss.Color(h.info),
		Neutral:   lipgloss.Color(h.neutral),
	}
}

var builtinThemes = map[string]hexPalette{
	"tokyo-night": {
		text: "#c0caf5", subtle: "#565f89", base: "#1a1b26", highlight: "#7dcfff",
		success: "#9ece6a", err: "#f7768e", warning: "#e0af68", info: "#7aa2f7", neutral: "#a9b1d6",
	},
	"gruvbox": {
		text: "#ebdbb2", subtle: "#928374", base: "#282828", highlight: "#8ec07c",
		success: "#b8bb26", err: "#fb4934", warning: "#fabd2f", info: "#83a598", neutral: "#a89984",
	},
	"catppuccin": {
		text: "#cdd6f4", subtle: "#6c7086", base: "#1e1e2e", highlight: "#94e2d5",
		success: "#a6e3a1", err: "#f38ba8", warning: "#f9e2af", info: "#89b4fa", neutral: "#bac2de",
	},
	"onedark": {
		text: "#abb2bf", subtle: "#5c6370", base: "#282c34", highlight: "#56b6c2",
		success: "#98c379", err: "#e06c75", warning: "#e5c07b", info: "#61afef", neutral: "#828997",
	},
	"nord": {
		text: "#eceff4", subtle: "#4c566a", base: "#2e3440", highlight: "#88c0d0",
		success: "#a3be8c", err: "#bf616a", warning: "#ebcb8b", info: "#81a1c1", neutral: "#d8dee9",
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	h, ok := builtinThemes[name]
	if !ok {
		return Palette{}, false
	}
	return h.palette(), true
}
