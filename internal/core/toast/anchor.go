package toast

import (
	"fmt"
	"strings"
)

// Anchor is the screen edge toasts stack against. Only renderers read it.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// ParseAnchor converts a user supplied string into an Anchor.
// Matching is case-insensitive; the empty string yields AnchorBottom.
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AnchorBottom):
		return AnchorBottom, nil
	case string(AnchorTop):
		return AnchorTop, nil
	default:
		return "", fmt.Errorf("invalid anchor %q (expected top or bottom)", s)
	}
}

// Toggle returns the opposite anchor.
func (a Anchor) Toggle() Anchor {
	if a == AnchorTop {
		return AnchorBottom
	}
	return AnchorTop
}
