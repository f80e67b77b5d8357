// wn is a terminal navigator for a wiki's page hierarchy: a filterable,
// section-aware tree with durable expand/collapse state.
//
// It reads the catalog from the freshest supported source in the working
// directory (catalog.json, wiki.db, or a docs/ markdown tree) unless one is
// named explicitly with --catalog, --db, or --docs.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/wikinav/internal/datasource"
	"github.com/vanderheijden86/wikinav/pkg/config"
	"github.com/vanderheijden86/wikinav/pkg/debug"
	"github.com/vanderheijden86/wikinav/pkg/export"
	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/nav"
	"github.com/vanderheijden86/wikinav/pkg/ui"
	"github.com/vanderheijden86/wikinav/pkg/version"
	"github.com/vanderheijden86/wikinav/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	catalogPath := flag.String("catalog", "", "Path to a catalog.json file")
	dbPath := flag.String("db", "", "Path to a wiki.db SQLite catalog")
	docsPath := flag.String("docs", "", "Path to a docs/ markdown tree")
	pageID := flag.String("page", "", "Current page id to highlight")
	printFlag := flag.Bool("print", false, "Print the full tree to stdout and exit")
	exportSVG := flag.Bool("export-svg", false, "Write an SVG outline of the tree and exit")
	outPath := flag.String("out", "", "Output path for --export-svg (prompted when omitted)")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the catalog source")
	flag.Parse()

	if *help {
		fmt.Println("Usage: wn [options]")
		fmt.Println("\nA navigation tree for wiki pages.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("wn %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		// A broken config file is worth a warning, not a refusal to start.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	src, err := resolveSource(*catalogPath, *dbPath, *docsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	debug.Log("catalog source: %s", src)

	policy := nav.SectionPolicy{Collapsed: cfg.CollapsedSections}

	if *printFlag {
		if err := printTree(src); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *exportSVG {
		if err := exportOutline(src, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	runTUI(cfg, src, policy, *pageID, *noWatch)
}

// resolveSource honors an explicit flag first and falls back to discovery in
// the working directory.
func resolveSource(catalogPath, dbPath, docsPath string) (datasource.Source, error) {
	switch {
	case catalogPath != "":
		return statSource(datasource.SourceTypeJSON, catalogPath)
	case dbPath != "":
		return statSource(datasource.SourceTypeSQLite, dbPath)
	case docsPath != "":
		return statSource(datasource.SourceTypeDocsDir, docsPath)
	}
	return datasource.Select("")
}

func statSource(t datasource.SourceType, path string) (datasource.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return datasource.Source{}, fmt.Errorf("catalog source %s: %w", path, err)
	}
	return datasource.Source{Type: t, Path: path, ModTime: info.ModTime()}, nil
}

// printTree dumps the full tree to stdout, every branch expanded. Plain
// text, no cursor, suitable for piping.
func printTree(src datasource.Source) error {
	cat, err := datasource.Load(src)
	if err != nil {
		return err
	}
	roots := nav.Build(cat)
	groups := nav.GroupSections(roots)

	var sb strings.Builder
	showHeaders := len(groups) > 1 ||
		(len(groups) == 1 && groups[0].Name != nav.UngroupedSection)
	for _, g := range groups {
		indent := 0
		if showHeaders {
			name := g.Name
			if name == nav.UngroupedSection {
				name = "Other"
			}
			fmt.Fprintf(&sb, "%s\n", name)
			indent = 1
		}
		for _, n := range g.Nodes {
			writePlain(&sb, n, indent)
		}
	}
	_, err = os.Stdout.WriteString(sb.String())
	return err
}

func writePlain(sb *strings.Builder, n *nav.Node, depth int) {
	marker := "•"
	if !n.IsLeaf() {
		marker = "▾"
	}
	fmt.Fprintf(sb, "%s%s %s", strings.Repeat("  ", depth), marker, n.Title)
	if !n.IsLeaf() {
		fmt.Fprintf(sb, " (%d)", n.DescendantCount)
	}
	if n.Status == model.StatusDraft {
		sb.WriteString(" [draft]")
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		writePlain(sb, c, depth+1)
	}
}

func exportOutline(src datasource.Source, out string) error {
	cat, err := datasource.Load(src)
	if err != nil {
		return err
	}
	roots := nav.Build(cat)

	if out == "" {
		out, err = export.PromptOutputPath()
		if err != nil {
			return fmt.Errorf("resolving output path: %w", err)
		}
	}

	opts := export.SVGOptions{
		Title: fmt.Sprintf("Wiki pages · %s", filepath.Base(src.Path)),
	}
	if err := export.WriteSVGFile(out, roots, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runTUI(cfg config.Config, src datasource.Source, policy nav.SectionPolicy, pageID string, noWatch bool) {
	store := nav.NewFileStore(cfg.ResolvedStateDir())

	var w *watcher.Watcher
	if cfg.LiveReload() && !noWatch {
		var err error
		w, err = watcher.New(src.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload unavailable: %v\n", err)
		} else if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload unavailable: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	app := ui.NewApp(ui.AppOptions{
		Theme:      ui.DefaultTheme(lipgloss.DefaultRenderer()),
		Store:      store,
		Policy:     policy,
		ShowCounts: cfg.ShowCounts(),
		Load:       func() ([]model.CatalogNode, error) { return datasource.Load(src) },
		OnOpen: func(id, slug string) {
			debug.Log("navigation intent: id=%s slug=%s", id, slug)
		},
		Content:       contentFunc(src),
		Watcher:       w,
		CurrentPageID: pageID,
		AutoExpand:    cfg.UI.AutoExpand,
	})

	if err := runProgram(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error running wikinav: %v\n", err)
		os.Exit(1)
	}
}

// contentFunc resolves page bodies for the preview modal. Only the docs
// tree source has bodies on disk; the other sources disable previews.
func contentFunc(src datasource.Source) ui.ContentFunc {
	if src.Type != datasource.SourceTypeDocsDir {
		return nil
	}
	root := src.Path
	return func(slug string) (string, error) {
		if slug == "" {
			return "", fmt.Errorf("page has no slug")
		}
		// Slugs from the docs loader are root-relative paths without the
		// .md suffix. Reject anything that escapes the docs root.
		clean := filepath.Clean(filepath.FromSlash(slug))
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			return "", fmt.Errorf("invalid slug %q", slug)
		}
		for _, candidate := range []string{clean + ".md", filepath.Join(clean, "index.md")} {
			data, err := os.ReadFile(filepath.Join(root, candidate))
			if err == nil {
				return string(data), nil
			}
		}
		return "", fmt.Errorf("no content for %q", slug)
	}
}

func runProgram(app ui.App) error {
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
		case <-sigCh:
			p.Kill()
		case <-time.After(5 * time.Second):
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
