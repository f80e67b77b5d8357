// Package export renders the navigation tree to shareable artifacts.
// The SVG outline is a static picture of the full hierarchy (every node,
// regardless of expansion state), grouped by section, with the same
// affordances the TUI shows (folder/page markers, descendant counts,
// draft badges).
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/nav"
)

// Layout constants, in SVG user units (pixels at default scale).
const (
	lineHeight   = 22
	indentWidth  = 22
	marginX      = 24
	marginY      = 20
	headerHeight = 46
	minWidth     = 480
	charWidth    = 8 // monospace estimate for sizing the canvas
)

// Palette matches the TUI's dark theme.
const (
	colorBackdrop = "#282A36"
	colorHeader   = "#BD93F9"
	colorText     = "#F8F8F2"
	colorMuted    = "#6272A4"
	colorSection  = "#BD93F9"
	colorDraft    = "#FFB86C"
)

// SVGOptions configures the outline export.
type SVGOptions struct {
	Title string // header text; defaults to "Wiki pages"
}

// WriteSVG renders the outline to w.
func WriteSVG(w io.Writer, roots []*nav.Node, opts SVGOptions) error {
	title := opts.Title
	if title == "" {
		title = "Wiki pages"
	}

	groups := nav.GroupSections(roots)
	lines := outlineLines(groups)

	width := minWidth
	for _, ln := range lines {
		if lw := marginX*2 + ln.indent*indentWidth + len(ln.text)*charWidth; lw > width {
			width = lw
		}
	}
	height := headerHeight + marginY*2 + len(lines)*lineHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", colorBackdrop))
	canvas.Roundrect(12, 10, width-24, headerHeight-16, 8, 8, fmt.Sprintf("fill:%s", colorHeader))
	canvas.Text(marginX, 30, title,
		fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", colorBackdrop))

	y := headerHeight + marginY
	for _, ln := range lines {
		x := marginX + ln.indent*indentWidth
		canvas.Text(x, y, ln.text,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace%s", ln.color, ln.extra))
		y += lineHeight
	}

	canvas.End()
	return nil
}

// WriteSVGFile renders the outline to a file.
func WriteSVGFile(path string, roots []*nav.Node, opts SVGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteSVG(f, roots, opts)
}

// outlineLine is one rendered row of the outline.
type outlineLine struct {
	indent int
	text   string
	color  string
	extra  string // appended style fragments
}

// outlineLines flattens the grouped tree into rows. Section headers count
// their pages; node rows carry marker, title, descendant count, and status
// badge the same way the TUI renders them.
func outlineLines(groups []nav.SectionGroup) []outlineLine {
	var lines []outlineLine
	showHeaders := len(groups) > 1 ||
		(len(groups) == 1 && groups[0].Name != nav.UngroupedSection)

	for _, g := range groups {
		base := 0
		if showHeaders {
			name := g.Name
			if name == nav.UngroupedSection {
				name = "Other"
			}
			count := 0
			for _, n := range g.Nodes {
				count += 1 + n.DescendantCount
			}
			lines = append(lines, outlineLine{
				text:  fmt.Sprintf("%s · %d", name, count),
				color: colorSection,
				extra: ";font-weight:bold",
			})
			base = 1
		}
		for _, n := range g.Nodes {
			lines = appendNodeLines(lines, n, base)
		}
	}
	return lines
}

func appendNodeLines(lines []outlineLine, n *nav.Node, indent int) []outlineLine {
	if n == nil {
		return lines
	}

	marker := "•"
	if !n.IsLeaf() {
		marker = "▾"
	}
	text := fmt.Sprintf("%s %s", marker, n.Title)
	if !n.IsLeaf() {
		text += fmt.Sprintf(" (%d)", n.DescendantCount)
	}

	color := colorText
	extra := ""
	switch {
	case n.Placeholder:
		color = colorMuted
		extra = ";font-style:italic"
	case n.Status.IsDraft():
		text += " [draft]"
		color = colorDraft
	case n.Status == model.StatusArchived:
		color = colorMuted
	}

	lines = append(lines, outlineLine{indent: indent, text: text, color: color, extra: extra})
	for _, c := range n.Children {
		lines = appendNodeLines(lines, c, indent+1)
	}
	return lines
}
