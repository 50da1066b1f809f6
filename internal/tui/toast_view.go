package tui

import (
	"slices"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toast/internal/core/styles"
	"github.com/colonyops/toast/internal/core/toast"
)

// ToastView renders toast records and composites them as an overlay.
type ToastView struct {
	width int
}

func NewToastView(width int) *ToastView {
	return &ToastView{width: width}
}

// View renders the toast stack as a single string. With a bottom anchor
// the newest toast is drawn last (nearest the bottom edge); with a top
// anchor the order is reversed so the newest is nearest the top edge.
func (v *ToastView) View(records []toast.Record, anchor toast.Anchor) string {
	if len(records) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(records))
	for _, r := range records {
		rendered = append(rendered, v.renderToast(r))
	}
	if anchor == toast.AnchorTop {
		slices.Reverse(rendered)
	}

	return strings.Join(rendered, "\n")
}

func (v *ToastView) renderToast(r toast.Record) string {
	title := styles.VariantIcon(r.Variant) + " " + styles.ToastTitleStyle.Render(r.Title)

	lines := []string{title}
	if r.Message != "" {
		lines = append(lines, styles.ToastMessageStyle.Render(r.Message))
	}
	if r.HasAction() {
		lines = append(lines, styles.ToastActionStyle.Render(r.Action.Label))
	}

	return styles.ToastStyle(r.Variant).
		Width(v.width).
		Render(strings.Join(lines, "\n"))
}

// Overlay composites the toast stack over background in the right-hand
// corner selected by anchor.
func (v *ToastView) Overlay(background string, records []toast.Record, anchor toast.Anchor, width, height int) string {
	toastContent := v.View(records, anchor)
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	x := max(width-toastW-1, 0)
	y := 0
	if anchor != toast.AnchorTop {
		y = max(height-toastH, 0)
	}

	toastLayer.X(x).Y(y).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
