// app.go - Top-level bubbletea model wiring the tree view to the outside
// world: catalog loading, live reload, search input, page preview, and the
// navigation-intent callback.
//
// The catalog source has three states the UI must render distinctly: loading
// (spinner), error (message plus retry hint), and loaded (the tree). Loads
// and watcher waits run as tea.Cmds; every state mutation happens inside
// Update on the single bubbletea goroutine, so no toggle can race a render.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/wikinav/pkg/debug"
	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/nav"
	"github.com/vanderheijden86/wikinav/pkg/watcher"
)

// LoadFunc pulls a catalog snapshot from the external source.
type LoadFunc func() ([]model.CatalogNode, error)

// OpenFunc receives the navigation intent when a page is activated.
// Routing is the caller's job; the tree only reports id and slug.
type OpenFunc func(id, slug string)

// ContentFunc resolves a page's markdown body for the preview modal.
// A nil ContentFunc disables previews entirely.
type ContentFunc func(slug string) (string, error)

// CatalogLoadedMsg delivers a catalog snapshot to the UI.
type CatalogLoadedMsg struct {
	Catalog []model.CatalogNode
}

// CatalogErrorMsg delivers a catalog load failure to the UI.
type CatalogErrorMsg struct {
	Err error
}

// FileChangedMsg signals that the watched catalog source changed on disk.
type FileChangedMsg struct{}

type previewMsg struct {
	title    string
	rendered string
	err      error
}

// loadState tracks the catalog source's three externally visible states.
type loadState int

const (
	stateLoading loadState = iota
	stateError
	stateLoaded
)

// App is the root bubbletea model.
type App struct {
	theme Theme
	tree  TreeModel

	load    LoadFunc
	onOpen  OpenFunc
	content ContentFunc
	watcher *watcher.Watcher

	state   loadState
	loadErr error

	spinner     spinner.Model
	searchInput textinput.Model

	previewing   bool
	previewTitle string
	preview      viewport.Model

	currentID  string
	autoExpand bool
	mounted    bool

	statusMsg string
	width     int
	height    int
	ready     bool
}

// AppOptions configures a new App.
type AppOptions struct {
	Theme      Theme
	Store      nav.Store
	Policy     nav.SectionPolicy
	ShowCounts bool

	Load    LoadFunc
	OnOpen  OpenFunc
	Content ContentFunc
	Watcher *watcher.Watcher

	// CurrentPageID marks the active route; its ancestors are expanded once
	// on the first catalog load when AutoExpand is set.
	CurrentPageID string
	AutoExpand    bool
}

// NewApp builds the root model. The catalog is not loaded here; Init kicks
// off the first load so the spinner renders immediately.
func NewApp(opts AppOptions) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.PrimaryBold

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter pages"
	ti.CharLimit = 256

	return App{
		theme:       opts.Theme,
		tree:        NewTreeModel(opts.Theme, opts.Store, opts.Policy, opts.ShowCounts),
		load:        opts.Load,
		onOpen:      opts.OnOpen,
		content:     opts.Content,
		watcher:     opts.Watcher,
		spinner:     sp,
		searchInput: ti,
		currentID:   opts.CurrentPageID,
		autoExpand:  opts.AutoExpand,
	}
}

// Init starts the initial catalog load, the spinner, and the watcher wait.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadCatalogCmd(), a.spinner.Tick}
	if a.watcher != nil {
		cmds = append(cmds, watchCmd(a.watcher))
	}
	return tea.Batch(cmds...)
}

// loadCatalogCmd pulls a catalog snapshot off the Update goroutine.
func (a App) loadCatalogCmd() tea.Cmd {
	load := a.load
	return func() tea.Msg {
		if load == nil {
			return CatalogErrorMsg{Err: fmt.Errorf("no catalog source configured")}
		}
		cat, err := load()
		if err != nil {
			return CatalogErrorMsg{Err: err}
		}
		return CatalogLoadedMsg{Catalog: cat}
	}
}

// watchCmd waits for the next change notification.
func watchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// previewCmd resolves and renders a page body for the modal.
func (a App) previewCmd(n *nav.Node) tea.Cmd {
	content := a.content
	title, slug := n.Title, n.Slug
	width := a.width - 8
	if width < 20 {
		width = 20
	}
	if width > 100 {
		width = 100
	}
	return func() tea.Msg {
		raw, err := content(slug)
		if err != nil {
			return previewMsg{title: title, err: err}
		}
		rendered := raw
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err == nil {
			if out, rerr := r.Render(raw); rerr == nil {
				rendered = out
			} else {
				// Fall back to the raw markdown; a styling failure must
				// not block reading the page.
				debug.Log("rendering preview for %s: %v", slug, rerr)
			}
		}
		return previewMsg{title: title, rendered: rendered}
	}
}

// Update is the single event loop. Build, filter, toggle, and persist all
// run synchronously here, so a toggle's result is visible to the very next
// View call.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.tree.SetSize(msg.Width, msg.Height-1) // status line
		a.preview.Width = msg.Width - 4
		a.preview.Height = msg.Height - 6
		return a, nil

	case CatalogLoadedMsg:
		a.state = stateLoaded
		a.loadErr = nil
		a.tree.SetCatalog(msg.Catalog)
		if !a.mounted {
			a.mounted = true
			if a.currentID != "" {
				a.tree.SetCurrentPage(a.currentID, a.autoExpand)
			}
		}
		return a, nil

	case CatalogErrorMsg:
		// A reload failure after a successful load keeps the last good
		// tree; only the initial load renders the full error state.
		if a.state != stateLoaded {
			a.state = stateError
		}
		a.loadErr = msg.Err
		a.statusMsg = fmt.Sprintf("catalog load failed: %v", msg.Err)
		return a, nil

	case FileChangedMsg:
		debug.Log("catalog source changed, reloading")
		a.statusMsg = "Catalog changed, reloading…"
		cmds := []tea.Cmd{a.loadCatalogCmd()}
		if a.watcher != nil {
			cmds = append(cmds, watchCmd(a.watcher))
		}
		return a, tea.Batch(cmds...)

	case previewMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("preview unavailable: %v", msg.err)
			return a, nil
		}
		a.previewing = true
		a.previewTitle = msg.title
		a.preview = viewport.New(max(20, a.width-4), max(5, a.height-6))
		a.preview.SetContent(msg.rendered)
		return a, nil

	case spinner.TickMsg:
		if a.state != stateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The preview modal captures all input until dismissed.
	if a.previewing {
		switch msg.String() {
		case "esc", "q", "enter":
			a.previewing = false
			return a, nil
		default:
			var cmd tea.Cmd
			a.preview, cmd = a.preview.Update(msg)
			return a, cmd
		}
	}

	if a.state == stateError {
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.state = stateLoading
			a.statusMsg = ""
			return a, tea.Batch(a.loadCatalogCmd(), a.spinner.Tick)
		}
		return a, nil
	}

	// While the search input is focused, printable keys edit the query and
	// every keystroke re-runs the filter. Expansion state is never touched.
	if a.tree.IsSearchMode() {
		switch msg.String() {
		case "esc":
			a.searchInput.SetValue("")
			a.searchInput.Blur()
			a.tree.ClearSearch()
			return a, nil
		case "enter":
			a.searchInput.Blur()
			a.tree.ExitSearchMode()
			return a, nil
		case "up", "down":
			// Allow moving the cursor through matches without leaving
			// the input.
			if msg.String() == "up" {
				a.tree.MoveUp()
			} else {
				a.tree.MoveDown()
			}
			return a, nil
		default:
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			a.tree.SetQuery(a.searchInput.Value())
			return a, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/":
		a.tree.EnterSearchMode()
		a.searchInput.SetValue("")
		return a, a.searchInput.Focus()

	case "esc":
		if a.tree.Query() != "" {
			a.searchInput.SetValue("")
			a.tree.ClearSearch()
		}
		return a, nil

	case "up", "k":
		a.tree.MoveUp()
	case "down", "j":
		a.tree.MoveDown()
	case "left", "h":
		a.tree.CollapseOrAscend()
	case "right", "l":
		a.tree.ExpandOrDescend()
	case "pgup", "ctrl+u":
		a.tree.PageUp()
	case "pgdown", "ctrl+d":
		a.tree.PageDown()
	case "g", "home":
		a.tree.JumpToTop()
	case "G", "end":
		a.tree.JumpToBottom()
	case "p", "backspace":
		a.tree.JumpToParent()

	case " ", "space", "tab":
		a.tree.ToggleSelected()

	case "enter":
		return a.activateSelected()

	case "y":
		if n := a.tree.SelectedNode(); n != nil && n.Slug != "" {
			if err := clipboard.WriteAll(n.Slug); err != nil {
				a.statusMsg = "clipboard unavailable"
			} else {
				a.statusMsg = fmt.Sprintf("copied %q", n.Slug)
			}
		}

	case "r":
		a.statusMsg = "Reloading catalog…"
		return a, a.loadCatalogCmd()
	}

	return a, nil
}

// activateSelected fires the navigation intent for the selected page.
// Branch nodes toggle instead when collapsed, matching how file explorers
// treat enter; leaves always activate.
func (a App) activateSelected() (tea.Model, tea.Cmd) {
	r := a.tree.SelectedRow()
	if r == nil {
		return a, nil
	}
	if r.kind == rowSection {
		a.tree.ToggleSelected()
		return a, nil
	}
	n := r.node
	if n == nil {
		return a, nil
	}
	if !n.IsLeaf() && !a.tree.State().IsExpanded(n.ID) && !a.tree.searching() {
		a.tree.ToggleSelected()
		return a, nil
	}
	if a.onOpen != nil {
		a.onOpen(n.ID, n.Slug)
	}
	if a.content != nil {
		return a, a.previewCmd(n)
	}
	a.statusMsg = fmt.Sprintf("open %s", n.Slug)
	return a, nil
}

// View renders one of the three source states, plus the preview modal and a
// status line. Rendering never panics on partial data: the tree isolates
// malformed nodes row by row.
func (a App) View() string {
	if !a.ready {
		return "Initializing…"
	}

	if a.previewing {
		return a.viewPreview()
	}

	var body string
	switch a.state {
	case stateLoading:
		body = fmt.Sprintf("\n  %s Loading catalog…", a.spinner.View())
	case stateError:
		body = "\n  " + a.theme.ErrorText.Render("Could not load the catalog.") +
			"\n\n  " + a.theme.MutedText.Render(fmt.Sprintf("%v", a.loadErr)) +
			"\n\n  " + a.theme.MutedText.Render("r retry · q quit")
	default:
		body = a.tree.View()
	}

	return body + "\n" + a.statusLine()
}

func (a App) viewPreview() string {
	title := a.theme.Header.Render(" " + a.previewTitle + " ")
	hint := a.theme.MutedText.Render("esc close · ↑/↓ scroll")
	return title + "\n" + a.preview.View() + "\n" + hint
}

func (a App) statusLine() string {
	if a.statusMsg != "" {
		return a.theme.MutedText.Render(" " + a.statusMsg)
	}
	if a.tree.IsSearchMode() {
		return a.theme.MutedText.Render(" enter keep filter · esc clear")
	}
	keys := []string{"↑/↓ move", "space toggle", "enter open", "/ search", "y copy slug", "q quit"}
	return a.theme.MutedText.Render(" " + strings.Join(keys, " · "))
}
