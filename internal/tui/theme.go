package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    = ac("240", "243")
	colorChromeFg = ac("240", "245")

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")

	colorSurfaceBg = ac("255", "235")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorInputBg   = ac("254", "234")
	colorBorder    = ac("250", "243")

	// Teal frame, after the original web app's border.
	colorAccent   = ac("#3f7479", "#51888e")
	colorAccentFg = ac("255", "235")

	colorSuccessBg = ac("#d7f5dd", "#1f3b26")
	colorSuccessFg = ac("#1b5e20", "#a5d6a7")
	colorErrorBg   = ac("196", "160")
	colorErrorFg   = ac("255", "255")
	colorFieldErr  = ac("160", "203")
	// Zebra striping for odd table rows.
	colorStripeBg = ac("#f4f4f4", "#1f1f1f")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful for
// non-interactive CLI output but can accidentally disable colors in a TUI. For the TUI,
// we only honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) DEVROSTER_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference() {
	switch themePreference() {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}

// themePreference returns "light", "dark" or "" when undecided.
func themePreference() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEVROSTER_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is often "fg;bg" (sometimes more segments). Use last segment as bg.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// Common xterm palette: 0-6 dark colors, 7-15 light colors.
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	return ""
}
