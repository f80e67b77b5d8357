// tree.go - Hierarchical, filterable navigation tree over the wiki catalog.
//
// The tree model owns the durable UI state (expanded node ids, per-section
// toggles) and mirrors every mutation to the injected nav.Store. Search
// filtering is a view-only overlay: it never touches expansion state, so
// clearing the query restores exactly the pre-search view.
package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/wikinav/pkg/debug"
	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/nav"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowNode
)

// row is one visible line of the tree view: either a section header or a
// page node at some depth.
type row struct {
	kind    rowKind
	section string
	count   int // pages in section, header rows only
	node    *nav.Node
	depth   int
}

// TreeModel manages the navigation tree view.
type TreeModel struct {
	theme      Theme
	store      nav.Store
	policy     nav.SectionPolicy
	showCounts bool

	roots []*nav.Node
	index nav.Index
	state nav.State

	currentID string

	// Search state. query is the live filter; filtered/matches are derived
	// from it on every keystroke and dropped when it clears.
	searchMode bool
	query      string
	filtered   []*nav.Node
	matches    map[string]bool

	rows           []row
	cursor         int
	viewportOffset int
	width          int
	height         int
	built          bool
}

// NewTreeModel creates a tree model. The store seeds expansion and section
// state once here; a nil store means state lives only for the session.
func NewTreeModel(theme Theme, store nav.Store, policy nav.SectionPolicy, showCounts bool) TreeModel {
	t := TreeModel{
		theme:      theme,
		store:      store,
		policy:     policy,
		showCounts: showCounts,
		state:      nav.NewState(),
	}
	if store != nil {
		t.state = store.Load()
	}
	return t
}

// SetSize updates the available dimensions for the tree view.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetCatalog (re)builds the tree from a catalog snapshot. Called on first
// load and again whenever the underlying catalog changes; expansion state
// survives the rebuild, minus ids that no longer exist.
func (t *TreeModel) SetCatalog(catalog []model.CatalogNode) {
	selectedID := t.GetSelectedID()

	t.roots, t.index = nav.BuildIndexed(catalog)
	t.state.Prune(t.index)
	t.refilter()
	t.rebuildRows()
	t.built = true

	if selectedID != "" {
		t.SelectByID(selectedID)
	}
	t.ensureCursorVisible()
}

// IsBuilt returns whether a catalog has been applied.
func (t *TreeModel) IsBuilt() bool { return t.built }

// SetCurrentPage marks the page highlighted as the active route. When
// autoExpand is set the ancestors of the page are expanded once, at mount;
// later route changes only move the highlight.
func (t *TreeModel) SetCurrentPage(id string, autoExpand bool) {
	t.currentID = id
	if autoExpand {
		if n, ok := t.index[id]; ok {
			t.state.ExpandPath(n)
			t.rebuildRows()
		}
	}
}

// State exposes the navigation state for tests and for the export path.
func (t *TreeModel) State() nav.State { return t.state }

// Roots exposes the built tree, e.g. for exporting.
func (t *TreeModel) Roots() []*nav.Node { return t.roots }

// ── Row building ──

// searching reports whether a non-empty query is active. The search overlay
// forces visibility of matches and their ancestors without touching state.
func (t *TreeModel) searching() bool {
	return strings.TrimSpace(t.query) != ""
}

func (t *TreeModel) refilter() {
	if !t.searching() {
		t.filtered = nil
		t.matches = nil
		return
	}
	t.filtered = nav.Filter(t.roots, t.query)
	t.matches = nav.MatchSet(t.roots, t.query)
}

// rebuildRows rebuilds the flat list of visible rows.
func (t *TreeModel) rebuildRows() {
	t.rows = t.rows[:0]

	roots := t.roots
	if t.searching() {
		roots = t.filtered
	}

	groups := nav.GroupSections(roots)
	// A catalog with only ungrouped roots renders without any header line.
	showHeaders := len(groups) > 1 ||
		(len(groups) == 1 && groups[0].Name != nav.UngroupedSection)

	for _, g := range groups {
		expanded := true
		if showHeaders {
			count := 0
			for _, n := range g.Nodes {
				count += 1 + n.DescendantCount
			}
			t.rows = append(t.rows, row{kind: rowSection, section: g.Name, count: count})
			// During search every retained section is held open so
			// matches stay reachable; section state is untouched.
			if !t.searching() {
				expanded = t.state.SectionExpanded(g.Name, t.policy)
			}
		}
		if !expanded {
			continue
		}
		for _, n := range g.Nodes {
			t.appendVisible(n, 0)
		}
	}

	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// appendVisible adds a node row and, if the node is open, its children.
// While searching, every retained node is open by definition.
func (t *TreeModel) appendVisible(n *nav.Node, depth int) {
	if n == nil {
		return
	}
	t.rows = append(t.rows, row{kind: rowNode, node: n, depth: depth})
	open := t.searching() || t.state.IsExpanded(n.ID)
	if open {
		for _, c := range n.Children {
			t.appendVisible(c, depth+1)
		}
	}
}

// ── Selection / movement ──

// SelectedRow returns the row under the cursor, or nil.
func (t *TreeModel) SelectedRow() *row {
	if t.cursor >= 0 && t.cursor < len(t.rows) {
		return &t.rows[t.cursor]
	}
	return nil
}

// SelectedNode returns the node under the cursor, or nil when the cursor is
// on a section header or the list is empty.
func (t *TreeModel) SelectedNode() *nav.Node {
	if r := t.SelectedRow(); r != nil && r.kind == rowNode {
		return r.node
	}
	return nil
}

// GetSelectedID returns the id of the selected node, or "".
func (t *TreeModel) GetSelectedID() string {
	if n := t.SelectedNode(); n != nil {
		return n.ID
	}
	return ""
}

// SelectByID moves the cursor to the node with the given id.
// Returns true if found.
func (t *TreeModel) SelectByID(id string) bool {
	for i, r := range t.rows {
		if r.kind == rowNode && r.node.ID == id {
			t.cursor = i
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down one row.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// MoveUp moves the cursor up one row.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// JumpToTop moves the cursor to the first row.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last row.
func (t *TreeModel) JumpToBottom() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
		t.ensureCursorVisible()
	}
}

// PageDown moves the cursor down by half a viewport.
func (t *TreeModel) PageDown() {
	step := t.effectiveVisibleCount() / 2
	if step < 1 {
		step = 5
	}
	t.cursor += step
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// PageUp moves the cursor up by half a viewport.
func (t *TreeModel) PageUp() {
	step := t.effectiveVisibleCount() / 2
	if step < 1 {
		step = 5
	}
	t.cursor -= step
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// JumpToParent moves the cursor to the parent of the selected node.
func (t *TreeModel) JumpToParent() {
	n := t.SelectedNode()
	if n == nil || n.Parent == nil {
		return
	}
	t.SelectByID(n.Parent.ID)
	t.ensureCursorVisible()
}

// ── Toggling ──

// ToggleSelected toggles the row under the cursor: section headers flip
// their section flag, branch nodes flip their expansion. Leaf nodes have no
// toggle affordance and are a no-op. Every mutation is persisted.
//
// While a search query is active the view is forced-visible, so node
// toggles are suppressed; search must never mutate expansion state.
func (t *TreeModel) ToggleSelected() {
	r := t.SelectedRow()
	if r == nil {
		return
	}
	switch r.kind {
	case rowSection:
		if t.searching() {
			return
		}
		t.state.ToggleSection(r.section, t.policy)
		t.persist()
		t.rebuildRows()
		t.ensureCursorVisible()
	case rowNode:
		if t.searching() || r.node.IsLeaf() {
			return
		}
		t.state.Toggle(r.node.ID)
		t.persist()
		t.rebuildRows()
		t.ensureCursorVisible()
	}
}

// ExpandOrDescend handles → / l: expand a collapsed branch, otherwise move
// to the first child.
func (t *TreeModel) ExpandOrDescend() {
	if t.searching() {
		return
	}
	n := t.SelectedNode()
	if n == nil || n.IsLeaf() {
		return
	}
	if !t.state.IsExpanded(n.ID) {
		t.state.SetExpanded(n.ID, true)
		t.persist()
		t.rebuildRows()
		t.ensureCursorVisible()
		return
	}
	t.SelectByID(n.Children[0].ID)
	t.ensureCursorVisible()
}

// CollapseOrAscend handles ← / h: collapse an expanded branch, otherwise
// jump to the parent.
func (t *TreeModel) CollapseOrAscend() {
	if t.searching() {
		return
	}
	n := t.SelectedNode()
	if n == nil {
		return
	}
	if !n.IsLeaf() && t.state.IsExpanded(n.ID) {
		t.state.SetExpanded(n.ID, false)
		t.persist()
		t.rebuildRows()
		t.ensureCursorVisible()
		return
	}
	t.JumpToParent()
}

// persist mirrors state to the store. Failures are logged and swallowed:
// persistence is a convenience, never worth breaking an interaction over.
func (t *TreeModel) persist() {
	if t.store == nil {
		return
	}
	if err := t.store.Save(t.state); err != nil {
		debug.Log("saving tree state: %v", err)
	}
}

// ── Search ──

// EnterSearchMode activates the search input with a fresh query.
func (t *TreeModel) EnterSearchMode() {
	t.searchMode = true
	t.query = ""
	t.refilter()
	t.rebuildRows()
}

// ExitSearchMode deactivates the input but keeps the filter applied.
func (t *TreeModel) ExitSearchMode() { t.searchMode = false }

// ClearSearch drops the query and the input, restoring the pre-search view.
// Expansion state was never touched, so restoration is exact.
func (t *TreeModel) ClearSearch() {
	t.searchMode = false
	t.query = ""
	t.refilter()
	t.rebuildRows()
	t.ensureCursorVisible()
}

// IsSearchMode returns whether the search input is focused.
func (t *TreeModel) IsSearchMode() bool { return t.searchMode }

// Query returns the current search query.
func (t *TreeModel) Query() string { return t.query }

// SetQuery replaces the query wholesale, e.g. from a text input widget.
func (t *TreeModel) SetQuery(q string) {
	if q == t.query {
		return
	}
	t.query = q
	t.refilter()
	t.rebuildRows()
	t.ensureCursorVisible()
}

// SearchAddChar appends a character to the query and re-runs the filter.
func (t *TreeModel) SearchAddChar(ch rune) {
	t.query += string(ch)
	t.refilter()
	t.rebuildRows()
	t.ensureCursorVisible()
}

// SearchBackspace removes the last character from the query.
func (t *TreeModel) SearchBackspace() {
	if len(t.query) > 0 {
		runes := []rune(t.query)
		t.query = string(runes[:len(runes)-1])
	}
	t.refilter()
	t.rebuildRows()
	t.ensureCursorVisible()
}

// MatchCount returns the number of directly matching pages.
func (t *TreeModel) MatchCount() int { return len(t.matches) }

// ── Rendering ──

// RowCount returns the number of visible rows.
func (t *TreeModel) RowCount() int { return len(t.rows) }

// View renders the tree with a header line and windowed rows: only the
// visible slice is rendered, so cost tracks viewport height, not tree size.
func (t *TreeModel) View() string {
	var sb strings.Builder
	sb.WriteString(t.renderHeader())
	sb.WriteString("\n")

	if len(t.rows) == 0 {
		sb.WriteString(t.renderEmptyState())
		if t.searchMode || t.searching() {
			sb.WriteString("\n")
			sb.WriteString(t.renderSearchBar())
		}
		return sb.String()
	}

	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		sb.WriteString(t.renderRow(t.rows[i], i == t.cursor))
		sb.WriteString("\n")
	}

	if len(t.rows) > t.effectiveVisibleCount() {
		sb.WriteString(t.renderPositionIndicator(start, end))
	}

	if t.searchMode || t.searching() {
		sb.WriteString("\n")
		sb.WriteString(t.renderSearchBar())
	}

	return sb.String()
}

func (t *TreeModel) renderHeader() string {
	width := t.width
	if width <= 0 {
		width = 80
	}
	total := 0
	nav.WalkAll(t.roots, func(*nav.Node) { total++ })
	label := fmt.Sprintf(" PAGES · %d", total)
	return t.theme.Header.Width(width).Render(label)
}

func (t *TreeModel) renderEmptyState() string {
	if t.searching() {
		return t.theme.MutedText.Render(fmt.Sprintf("No pages match %q.", strings.TrimSpace(t.query)))
	}
	return t.theme.MutedText.Render("The catalog is empty.")
}

// renderRow renders one line. Rendering is defensive: a malformed node
// produces a placeholder line and can never take sibling rows down with it.
func (t *TreeModel) renderRow(r row, selected bool) string {
	width := t.width
	if width <= 0 {
		width = 80
	}
	width-- // avoid wrapping on the exact terminal edge

	var line string
	switch r.kind {
	case rowSection:
		line = t.renderSectionRow(r, width)
	case rowNode:
		line = t.renderNodeRow(r, width, selected)
	}

	if selected {
		line = t.theme.Selected.Render(line)
	}
	return line
}

func (t *TreeModel) renderSectionRow(r row, width int) string {
	indicator := "▾"
	if !t.searching() && !t.state.SectionExpanded(r.section, t.policy) {
		indicator = "▸"
	}
	name := r.section
	if name == nav.UngroupedSection {
		name = "Other"
	}
	label := fmt.Sprintf("%s %s", indicator, name)
	count := t.theme.MutedText.Render(
		fmt.Sprintf(" · %d %s", r.count, pluralize(r.count, "page", "pages")))
	return t.theme.PrimaryBold.Render(truncate(label, width-12)) + count
}

func (t *TreeModel) renderNodeRow(r row, width int, selected bool) string {
	n := r.node
	if n == nil {
		return t.theme.Placeholder.Render("(unavailable)")
	}

	var left strings.Builder
	indent := strings.Repeat("  ", r.depth+1)
	left.WriteString(indent)

	// Leaves render no toggle affordance at all; branches get the folder
	// style indicator.
	var affordance string
	switch {
	case n.IsLeaf():
		affordance = "•"
	case t.searching() || t.state.IsExpanded(n.ID):
		affordance = "▾"
	default:
		affordance = "▸"
	}
	left.WriteString(t.theme.MutedText.Render(affordance))
	left.WriteString(" ")

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}

	// Reserve room for the suffix badges before truncating the title.
	suffixWidth := 0
	var suffix strings.Builder
	if !n.IsLeaf() && t.showCounts {
		c := fmt.Sprintf(" (%d)", n.DescendantCount)
		suffix.WriteString(t.theme.MutedText.Render(c))
		suffixWidth += len(c)
	}
	if n.Status.IsDraft() {
		suffix.WriteString(" ")
		suffix.WriteString(t.theme.DraftBadge.Render("[draft]"))
		suffixWidth += 8
	}
	if n.Status == model.StatusArchived {
		suffix.WriteString(" ")
		suffix.WriteString(t.theme.MutedText.Render("[archived]"))
		suffixWidth += 11
	}

	avail := width - len(indent) - 2 - suffixWidth
	if avail < 5 {
		avail = 5
	}
	title = truncate(title, avail)

	style := t.theme.Base
	switch {
	case n.Placeholder:
		style = t.theme.Placeholder
	case selected:
		style = t.theme.PrimaryBold
	case n.ID == t.currentID:
		style = t.theme.CurrentText
	case t.matches != nil && t.matches[n.ID]:
		style = t.theme.MatchText
	case t.searching():
		// Retained but not matching: an ancestor shown for context.
		style = t.theme.MutedText
	}
	left.WriteString(style.Render(title))
	left.WriteString(suffix.String())

	if n.ID == t.currentID {
		left.WriteString(" ")
		left.WriteString(t.theme.CurrentText.Render("◂"))
	}

	return left.String()
}

func (t *TreeModel) renderSearchBar() string {
	matchInfo := ""
	if t.searching() {
		if len(t.matches) > 0 {
			matchInfo = fmt.Sprintf(" [%d %s]", len(t.matches), pluralize(len(t.matches), "match", "matches"))
		} else {
			matchInfo = " [no matches]"
		}
	}
	return t.theme.PrimaryBold.Render(fmt.Sprintf("/%s%s", t.query, matchInfo))
}

func (t *TreeModel) renderPositionIndicator(start, end int) string {
	return t.theme.MutedText.Render(
		fmt.Sprintf(" %d-%d of %d", start+1, end, len(t.rows)))
}

// ── Windowing ──

// effectiveVisibleCount returns how many rows fit, reserving lines for the
// header, the position indicator when scrolling, and the search bar.
func (t *TreeModel) effectiveVisibleCount() int {
	visible := t.height - 1 // header
	if visible <= 0 {
		visible = 19
	}
	if t.searchMode || t.searching() {
		visible--
	}
	if len(t.rows) > visible && visible > 1 {
		visible-- // position indicator
	}
	if visible < 1 {
		visible = 1
	}
	return visible
}

func (t *TreeModel) visibleRange() (start, end int) {
	if len(t.rows) == 0 {
		return 0, 0
	}
	visible := t.effectiveVisibleCount()
	start = t.viewportOffset
	if start < 0 {
		start = 0
	}
	end = start + visible
	if end > len(t.rows) {
		end = len(t.rows)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// ensureCursorVisible scrolls just enough to keep the cursor on screen.
func (t *TreeModel) ensureCursorVisible() {
	if len(t.rows) == 0 {
		return
	}
	visible := t.effectiveVisibleCount()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visible {
		t.viewportOffset = t.cursor - visible + 1
	}
	maxOffset := len(t.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.viewportOffset > maxOffset {
		t.viewportOffset = maxOffset
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}
