package ui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/nav"
)

// stripANSI removes escape sequences for plain-text assertions.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func newTestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(nil))
}

// homeCatalog is the canonical fixture:
//
//	Home
//	├── Section 1
//	│   └── Page 1.1
//	└── Section 2
func homeCatalog() []model.CatalogNode {
	return []model.CatalogNode{
		{
			ID: "home", Title: "Home", Slug: "home",
			Children: []model.CatalogNode{
				{
					ID: "s1", Title: "Section 1", Slug: "s1",
					Children: []model.CatalogNode{
						{ID: "p11", Title: "Page 1.1", Slug: "p11"},
					},
				},
				{ID: "s2", Title: "Section 2", Slug: "s2"},
			},
		},
	}
}

func newTestTree(catalog []model.CatalogNode, store nav.Store) TreeModel {
	tr := NewTreeModel(newTestTheme(), store, nav.DefaultSectionPolicy(), true)
	tr.SetSize(80, 24)
	tr.SetCatalog(catalog)
	return tr
}

// visibleTitles lists the rendered node titles in row order.
func visibleTitles(t *TreeModel) []string {
	var out []string
	for _, r := range t.rows {
		if r.kind == rowNode {
			out = append(out, r.node.Title)
		}
	}
	return out
}

func TestInitialRenderOnlyRoots(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)

	got := visibleTitles(&tr)
	if len(got) != 1 || got[0] != "Home" {
		t.Fatalf("initial render must show only Home, got %v", got)
	}
}

func TestExpandRevealsOneLevelAtATime(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)

	// Expanding Home reveals Section 1 and Section 2, not Page 1.1.
	tr.ToggleSelected()
	got := visibleTitles(&tr)
	want := []string{"Home", "Section 1", "Section 2"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("after expanding Home: %v, want %v", got, want)
	}

	// Expanding Section 1 then reveals Page 1.1.
	tr.MoveDown()
	tr.ToggleSelected()
	got = visibleTitles(&tr)
	want = []string{"Home", "Section 1", "Page 1.1", "Section 2"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("after expanding Section 1: %v, want %v", got, want)
	}

	// Home's descendant count is 3.
	if tr.roots[0].DescendantCount != 3 {
		t.Errorf("Home count = %d, want 3", tr.roots[0].DescendantCount)
	}
}

func TestLeafToggleIsNoOp(t *testing.T) {
	store := nav.NewMemStore()
	tr := newTestTree(homeCatalog(), store)
	tr.ToggleSelected() // expand Home
	tr.MoveDown()
	tr.ToggleSelected() // expand Section 1
	tr.MoveDown()       // on Page 1.1, a leaf

	before := len(tr.rows)
	savedBefore := store.Load()
	tr.ToggleSelected()

	if len(tr.rows) != before {
		t.Error("toggling a leaf changed the view")
	}
	savedAfter := store.Load()
	if len(savedAfter.Expanded) != len(savedBefore.Expanded) {
		t.Error("toggling a leaf must not write state")
	}
}

func TestToggleTwiceRestoresView(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)
	tr.ToggleSelected()
	tr.ToggleSelected()
	got := visibleTitles(&tr)
	if len(got) != 1 || got[0] != "Home" {
		t.Errorf("double toggle should restore the initial view, got %v", got)
	}
}

func TestTogglePersistsToStore(t *testing.T) {
	store := nav.NewMemStore()
	tr := newTestTree(homeCatalog(), store)

	tr.ToggleSelected()
	if !store.Load().IsExpanded("home") {
		t.Error("expansion must be mirrored to the store")
	}

	tr.ToggleSelected()
	if store.Load().IsExpanded("home") {
		t.Error("collapse must be mirrored to the store")
	}
}

func TestStoreSeedsInitialState(t *testing.T) {
	store := nav.NewMemStore()
	st := nav.NewState()
	st.SetExpanded("home", true)
	if err := store.Save(st); err != nil {
		t.Fatal(err)
	}

	tr := newTestTree(homeCatalog(), store)
	got := visibleTitles(&tr)
	if len(got) != 3 {
		t.Errorf("persisted expansion should apply on mount, got %v", got)
	}
}

func TestSearchOverlayAndExactRestore(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)
	tr.ToggleSelected() // expand Home only
	expandedBefore := visibleTitles(&tr)

	// Query "Section 2": pruned view shows Home (ancestor) and Section 2
	// (match), not Section 1 or Page 1.1.
	tr.EnterSearchMode()
	for _, ch := range "Section 2" {
		tr.SearchAddChar(ch)
	}
	got := visibleTitles(&tr)
	want := []string{"Home", "Section 2"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("search view = %v, want %v", got, want)
	}
	if tr.MatchCount() != 1 {
		t.Errorf("match count = %d, want 1", tr.MatchCount())
	}

	// Search never mutates expansion state.
	if !tr.State().IsExpanded("home") || tr.State().IsExpanded("s1") {
		t.Error("search mutated expansion state")
	}

	// Clearing restores the exact pre-search view.
	tr.ClearSearch()
	got = visibleTitles(&tr)
	if strings.Join(got, "|") != strings.Join(expandedBefore, "|") {
		t.Errorf("post-search view = %v, want %v", got, expandedBefore)
	}
}

func TestSearchShowsAncestorsOfDeepMatches(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil) // everything collapsed

	tr.EnterSearchMode()
	tr.SetQuery("Page 1.1")
	got := visibleTitles(&tr)
	want := []string{"Home", "Section 1", "Page 1.1"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("deep match must surface with its ancestors, got %v", got)
	}
}

func TestSearchNoMatches(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)
	tr.EnterSearchMode()
	tr.SetQuery(".*+?^${}[]|()")

	if n := len(visibleTitles(&tr)); n != 0 {
		t.Errorf("metacharacter query must match nothing, got %d rows", n)
	}
	view := stripANSI(tr.View())
	if !strings.Contains(view, "No pages match") {
		t.Errorf("empty result should render the no-results line:\n%s", view)
	}
}

func TestSearchBackspaceBroadens(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)
	tr.EnterSearchMode()
	tr.SetQuery("Section 2")
	narrow := len(visibleTitles(&tr))

	tr.SearchBackspace()
	tr.SearchBackspace() // "Section"
	if broad := len(visibleTitles(&tr)); broad < narrow {
		t.Errorf("broadening hid nodes: %d < %d", broad, narrow)
	}
}

func sectionedCatalog() []model.CatalogNode {
	return []model.CatalogNode{
		{ID: "g1", Title: "Install", Slug: "g1", Section: "Guides"},
		{
			ID: "rt1", Title: "Smoke Tests", Slug: "rt1", Section: "Regression-Testing",
			Children: []model.CatalogNode{
				{ID: "rt11", Title: "Nightly", Slug: "rt11"},
			},
		},
		{ID: "u1", Title: "Scratchpad", Slug: "u1"},
	}
}

func TestRegressionTestingSectionDefaultsCollapsed(t *testing.T) {
	tr := newTestTree(sectionedCatalog(), nil)

	// The section header renders, its child page does not.
	view := stripANSI(tr.View())
	if !strings.Contains(view, "Regression-Testing") {
		t.Fatalf("section header missing:\n%s", view)
	}
	for _, title := range visibleTitles(&tr) {
		if title == "Smoke Tests" {
			t.Error("Regression-Testing content visible before the section toggle")
		}
	}

	// Clicking the section toggle reveals its pages.
	for i, r := range tr.rows {
		if r.kind == rowSection && r.section == "Regression-Testing" {
			tr.cursor = i
			break
		}
	}
	tr.ToggleSelected()
	found := false
	for _, title := range visibleTitles(&tr) {
		if title == "Smoke Tests" {
			found = true
		}
	}
	if !found {
		t.Error("section toggle should reveal its pages")
	}
}

func TestSectionToggleIsolation(t *testing.T) {
	store := nav.NewMemStore()
	tr := newTestTree(sectionedCatalog(), store)

	// Expand the Install node's section sibling state first.
	st := tr.State()
	st.SetExpanded("rt1", true)

	// Toggle the Guides section off.
	for i, r := range tr.rows {
		if r.kind == rowSection && r.section == "Guides" {
			tr.cursor = i
			break
		}
	}
	tr.ToggleSelected()

	if tr.State().SectionExpanded("Regression-Testing", tr.policy) {
		t.Error("other sections' flags must be untouched")
	}
	if !tr.State().SectionExpanded("", tr.policy) {
		t.Error("ungrouped bucket must be untouched")
	}
	if !tr.State().IsExpanded("rt1") {
		t.Error("node expansion outside the toggled section must be untouched")
	}
	if saved := store.Load(); saved.Sections["Guides"] != false {
		t.Error("section toggle must persist")
	}
}

func TestSectionHeadersHiddenForPlainCatalogs(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)
	for _, r := range tr.rows {
		if r.kind == rowSection {
			t.Fatal("a catalog without sections renders no headers")
		}
	}
}

func TestCurrentPageHighlightAndMountExpansion(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)

	// Without auto-expand the highlight is visual only; nothing opens.
	tr.SetCurrentPage("p11", false)
	if len(visibleTitles(&tr)) != 1 {
		t.Error("highlight must not auto-expand ancestors")
	}

	// The one-shot mount policy opens the path to the current page.
	tr.SetCurrentPage("p11", true)
	got := visibleTitles(&tr)
	found := false
	for _, title := range got {
		if title == "Page 1.1" {
			found = true
		}
	}
	if !found {
		t.Errorf("auto-expand should reveal the current page, got %v", got)
	}

	view := stripANSI(tr.View())
	if !strings.Contains(view, "◂") {
		t.Errorf("current page marker missing:\n%s", view)
	}
}

func TestCatalogRebuildPreservesState(t *testing.T) {
	store := nav.NewMemStore()
	tr := newTestTree(homeCatalog(), store)
	tr.ToggleSelected() // expand Home

	// The catalog changes: Section 2 disappears, a new page arrives.
	next := homeCatalog()
	next[0].Children = next[0].Children[:1]
	next = append(next, model.CatalogNode{ID: "new", Title: "Newcomer", Slug: "new"})
	tr.SetCatalog(next)

	if !tr.State().IsExpanded("home") {
		t.Error("expansion must survive a catalog rebuild")
	}
	got := visibleTitles(&tr)
	want := []string{"Home", "Section 1", "Newcomer"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("rebuilt view = %v, want %v", got, want)
	}
}

func TestMalformedNodesRenderPlaceholders(t *testing.T) {
	catalog := []model.CatalogNode{
		{Title: "Lost my id"},
		{ID: "fine", Title: "Fine", Children: []model.CatalogNode{{ID: "nameless"}}},
	}
	tr := newTestTree(catalog, nil)

	// Rendering must not panic and every root still shows.
	view := stripANSI(tr.View())
	if !strings.Contains(view, "Lost my id") || !strings.Contains(view, "Fine") {
		t.Errorf("siblings of malformed nodes must render:\n%s", view)
	}

	tr.SelectByID("fine")
	tr.ToggleSelected()
	view = stripANSI(tr.View())
	if !strings.Contains(view, "(untitled)") {
		t.Errorf("missing title renders the placeholder:\n%s", view)
	}
}

func TestDraftBadgeAndCounts(t *testing.T) {
	catalog := []model.CatalogNode{
		{
			ID: "b", Title: "Branch", Slug: "b", Status: model.StatusPublished,
			Children: []model.CatalogNode{
				{ID: "d", Title: "WIP page", Slug: "d", Status: model.StatusDraft},
			},
		},
	}
	tr := newTestTree(catalog, nil)
	tr.ToggleSelected()

	view := stripANSI(tr.View())
	if !strings.Contains(view, "(1)") {
		t.Errorf("branch should show its descendant count:\n%s", view)
	}
	if !strings.Contains(view, "[draft]") {
		t.Errorf("draft badge missing:\n%s", view)
	}
	if strings.Contains(view, "Branch (1) [draft]") {
		t.Error("published branch must not carry the draft badge")
	}

	// Leaves never display a count.
	lines := strings.Split(view, "\n")
	for _, ln := range lines {
		if strings.Contains(ln, "WIP page") && strings.Contains(ln, "(0)") {
			t.Errorf("leaf rendered a count: %s", ln)
		}
	}
}

func TestCursorMovementAndWindowing(t *testing.T) {
	var catalog []model.CatalogNode
	for i := range 50 {
		catalog = append(catalog, model.CatalogNode{
			ID: string(rune('a' + i%26)) + string(rune('0' + i/26)), Title: "Page", Slug: "p",
		})
	}
	tr := NewTreeModel(newTestTheme(), nil, nav.DefaultSectionPolicy(), true)
	tr.SetSize(80, 10)
	tr.SetCatalog(catalog)

	tr.JumpToBottom()
	if tr.cursor != len(tr.rows)-1 {
		t.Errorf("cursor = %d", tr.cursor)
	}
	// The viewport follows the cursor.
	start, end := tr.visibleRange()
	if tr.cursor < start || tr.cursor >= end {
		t.Errorf("cursor %d outside viewport [%d,%d)", tr.cursor, start, end)
	}

	tr.JumpToTop()
	if tr.cursor != 0 {
		t.Errorf("cursor = %d", tr.cursor)
	}
	tr.PageDown()
	if tr.cursor == 0 {
		t.Error("PageDown did not move")
	}

	// View renders only the window, never panics on narrow sizes.
	tr.SetSize(20, 5)
	_ = tr.View()
}

func TestExpandOrDescendAndCollapseOrAscend(t *testing.T) {
	tr := newTestTree(homeCatalog(), nil)

	tr.ExpandOrDescend() // expands Home
	if !tr.State().IsExpanded("home") {
		t.Fatal("first → should expand")
	}
	tr.ExpandOrDescend() // descends to Section 1
	if tr.GetSelectedID() != "s1" {
		t.Errorf("second → should descend, cursor on %q", tr.GetSelectedID())
	}

	tr.CollapseOrAscend() // Section 1 collapsed already → ascend
	if tr.GetSelectedID() != "home" {
		t.Errorf("← on a collapsed node should ascend, cursor on %q", tr.GetSelectedID())
	}
	tr.CollapseOrAscend() // collapse Home
	if tr.State().IsExpanded("home") {
		t.Error("← on an expanded node should collapse it")
	}
}
