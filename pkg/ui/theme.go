package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Adaptive palette. Light mode colors chosen for contrast on white
// backgrounds (WCAG AA where text-sized).
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorMatch   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}

	ColorPublished = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDraft     = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorArchived  = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"}

	ColorHighlight = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// Theme bundles the renderer and the precomputed styles used per frame.
// Styles are created once at startup instead of per-row.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	MutedText   lipgloss.Style
	PrimaryBold lipgloss.Style
	MatchText   lipgloss.Style
	CurrentText lipgloss.Style
	DraftBadge  lipgloss.Style
	ErrorText   lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Muted:     ColorMuted,
		Highlight: ColorHighlight,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.MatchText = r.NewStyle().Foreground(ColorMatch)
	t.CurrentText = r.NewStyle().Foreground(ColorPublished).Bold(true)
	t.DraftBadge = r.NewStyle().Foreground(ColorDraft)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger)
	t.Placeholder = r.NewStyle().Foreground(ColorMuted).Faint(true).Italic(true)

	return t
}
