// Package ui holds the shared console styling for hook output.
package ui

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/samber/lo"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// GetBannerStyles generates reusable styles for hook banners and report
// labels. Returns two lipgloss.Style objects: one for banners and one for
// report field labels.
func GetBannerStyles() (lipgloss.Style, lipgloss.Style) {
	cs := GetFangScheme()

	bannerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(cs.QuotedString)

	labelStyle := lipgloss.NewStyle().
		Foreground(cs.Flag).
		Transform(strings.ToUpper)
	return bannerStyle, labelStyle
}

// noColorTERMs defines terminals that do not support ANSI color output.
// Keep this list small and conservative.
//
//nolint:gochecknoglobals // package-level lookup table for terminal detection
var noColorTERMs = lo.Keyify([]string{
	"dumb",
	"vt100",
	"cygwin",
	"xterm-mono",
})

// ColorEnabled reports whether hook output should be colorized. Color is
// disabled when stdout is not a terminal, when NO_COLOR is set, or when TERM
// is a known colorless terminal.
func ColorEnabled() bool {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	_, blacklisted := noColorTERMs[os.Getenv("TERM")]
	return !blacklisted
}
