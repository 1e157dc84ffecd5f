package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	modalMinWidth = 36
	modalMaxWidth = 72
)

// modalWidth is the outer modal width for a screen of the given width.
func modalWidth(screenW int) int {
	w := screenW - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// modalBodyWidth is the usable text width inside a modal.
func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 4
}

func renderModalBox(screenW int, title, body string) string {
	w := modalWidth(screenW)
	bodyW := modalBodyWidth(screenW)

	header := lipgloss.NewStyle().
		Width(w).
		Padding(0, 2).
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Render(title)

	lines := strings.Split(body, "\n")
	for i, ln := range lines {
		lines[i] = normalizePane(ln, bodyW, 0)
	}
	content := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

// placeCentered centers s over the whole screen.
func (m appModel) placeCentered(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
