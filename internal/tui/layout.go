package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and, when height
// is positive, height lines tall. This keeps split-pane rendering stable when using
// lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		lines[i] = fitCell(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitCell cuts s to width columns (with an ellipsis) or pads it with spaces.
func fitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the work on huge lines before measuring.
	if len(s) > 8192 {
		s = xansi.Cut(s, 0, width+1)
	}
	w := xansi.StringWidth(s)
	if w > width {
		s = xansi.Truncate(s, width, "…")
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
