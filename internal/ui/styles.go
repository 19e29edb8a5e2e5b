package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Flutter brand colors
var (
	flutterBlue  = lipgloss.Color("#02569B")
	flutterSky   = lipgloss.Color("#13B9FD")
	flutterLight = lipgloss.Color("#ECEDEE")

	// Status colors
	successColor = lipgloss.Color("#4ADE80")
	errorColor   = lipgloss.Color("#F87171")
	warnColor    = lipgloss.Color("#FBBF24")
	mutedColor   = lipgloss.Color("#64748B")

	// Platform colors
	iosColor     = lipgloss.Color("#0A84FF")
	androidColor = lipgloss.Color("#34D399")
	desktopColor = lipgloss.Color("#F97316")
)

// styles is bound to one renderer so color support follows the writer the
// printer targets, not the process's stdout.
type styles struct {
	title   lipgloss.Style
	rule    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	step    lipgloss.Style
	command lipgloss.Style
	success lipgloss.Style
	failed  lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	spinner lipgloss.Style

	iosBadge     lipgloss.Style
	androidBadge lipgloss.Style
	desktopBadge lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Foreground(flutterLight).
			Bold(true),
		rule: r.NewStyle().
			Foreground(flutterBlue),
		label: r.NewStyle().
			Foreground(mutedColor),
		value: r.NewStyle().
			Foreground(flutterSky),
		step: r.NewStyle().
			Foreground(flutterSky).
			Bold(true),
		command: r.NewStyle().
			Foreground(mutedColor),
		success: r.NewStyle().
			Foreground(successColor),
		failed: r.NewStyle().
			Foreground(errorColor).
			Bold(true),
		warn: r.NewStyle().
			Foreground(warnColor),
		muted: r.NewStyle().
			Foreground(mutedColor),
		spinner: r.NewStyle().
			Foreground(flutterSky),

		iosBadge: r.NewStyle().
			Foreground(iosColor).
			Bold(true),
		androidBadge: r.NewStyle().
			Foreground(androidColor).
			Bold(true),
		desktopBadge: r.NewStyle().
			Foreground(desktopColor).
			Bold(true),
	}
}

// platformBadge returns styled platform text for a Flutter targetPlatform
func (s styles) platformBadge(platform string) string {
	switch {
	case platform == "ios":
		return s.iosBadge.Render("iOS")
	case strings.HasPrefix(platform, "android"):
		return s.androidBadge.Render("Android")
	case platform == "darwin", platform == "linux-x64", platform == "linux-arm64", platform == "windows-x64":
		return s.desktopBadge.Render(platform)
	}
	return platform
}
