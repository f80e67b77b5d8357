package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending an ellipsis
// when something was cut. Width is measured in terminal cells, not runes,
// so CJK titles truncate correctly.
func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// padTo right-pads s with spaces to exactly width cells, truncating first
// if it is too long.
func padTo(s string, width int) string {
	s = truncate(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// pluralize returns the singular or plural form based on n.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
