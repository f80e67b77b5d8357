// Package datasource discovers and selects the catalog source for a wiki
// checkout. It looks for the supported forms (a catalog.json file, a
// wiki.db SQLite database, and a docs/ markdown tree) and picks the
// freshest valid one, so `wn` started in a wiki directory just works.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SourceType identifies the type of catalog source.
type SourceType string

const (
	// SourceTypeJSON is a nested catalog.json file.
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a wiki.db SQLite database.
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeDocsDir is a directory tree of markdown pages.
	SourceTypeDocsDir SourceType = "docs_dir"
)

// Priority values for source types when timestamps tie (higher = preferred).
// The JSON export is authoritative: it is what the wiki service publishes.
const (
	PriorityJSON    = 100
	PrioritySQLite  = 80
	PriorityDocsDir = 50
)

// DocsDirNames are the directory names probed for a markdown tree.
var DocsDirNames = []string{"docs", "pages", "wiki"}

// Source is a discovered catalog source candidate.
type Source struct {
	Type     SourceType
	Path     string
	Priority int
	ModTime  time.Time
}

// String returns a human-readable description of the source.
func (s Source) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339))
}

// Discover finds catalog source candidates under root, sorted freshest
// first with priority as the tiebreak. An empty result is not an error;
// the caller decides how to report "no catalog found".
func Discover(root string) ([]Source, error) {
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}

	var sources []Source

	if info, err := os.Stat(filepath.Join(root, "catalog.json")); err == nil && !info.IsDir() {
		sources = append(sources, Source{
			Type:     SourceTypeJSON,
			Path:     filepath.Join(root, "catalog.json"),
			Priority: PriorityJSON,
			ModTime:  info.ModTime(),
		})
	}

	if info, err := os.Stat(filepath.Join(root, "wiki.db")); err == nil && !info.IsDir() {
		sources = append(sources, Source{
			Type:     SourceTypeSQLite,
			Path:     filepath.Join(root, "wiki.db"),
			Priority: PrioritySQLite,
			ModTime:  info.ModTime(),
		})
	}

	for _, name := range DocsDirNames {
		dir := filepath.Join(root, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		sources = append(sources, Source{
			Type:     SourceTypeDocsDir,
			Path:     dir,
			Priority: PriorityDocsDir,
			ModTime:  dirModTime(dir, info.ModTime()),
		})
		break
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	return sources, nil
}

// Select returns the preferred source for root, or an error when none of
// the supported forms exist.
func Select(root string) (Source, error) {
	sources, err := Discover(root)
	if err != nil {
		return Source{}, err
	}
	if len(sources) == 0 {
		return Source{}, fmt.Errorf("no catalog source found in %s (expected catalog.json, wiki.db, or a docs/ directory)", root)
	}
	return sources[0], nil
}

// dirModTime returns the newest mtime among the directory's immediate
// entries, so edits inside docs/ count as freshness without a full walk.
func dirModTime(dir string, fallback time.Time) time.Time {
	newest := fallback
	entries, err := os.ReadDir(dir)
	if err != nil {
		return newest
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest
}
