package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverEmpty(t *testing.T) {
	sources, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}
}

func TestDiscoverFreshestWins(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-1 * time.Minute)

	touch(t, filepath.Join(dir, "catalog.json"), "[]", old)
	touch(t, filepath.Join(dir, "docs", "page.md"), "# p", fresh)
	if err := os.Chtimes(filepath.Join(dir, "docs"), fresh, fresh); err != nil {
		t.Fatal(err)
	}

	sources, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Type != SourceTypeDocsDir {
		t.Errorf("freshest source should win, got %s", sources[0].Type)
	}
}

func TestDiscoverPriorityTiebreak(t *testing.T) {
	dir := t.TempDir()
	same := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	touch(t, filepath.Join(dir, "catalog.json"), "[]", same)
	touch(t, filepath.Join(dir, "wiki.db"), "", same)

	sources, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Type != SourceTypeJSON {
		t.Errorf("the JSON export is authoritative on ties, got %s", sources[0].Type)
	}
}

func TestDiscoverDocsDirNames(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "wiki", "home.md"), "# h", time.Now())

	sources, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Type != SourceTypeDocsDir {
		t.Fatalf("expected the wiki/ tree to be discovered, got %v", sources)
	}
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	if _, err := Select(dir); err == nil {
		t.Error("expected an error when no source exists")
	}

	touch(t, filepath.Join(dir, "catalog.json"), "[]", time.Now())
	src, err := Select(dir)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if src.Type != SourceTypeJSON {
		t.Errorf("got %s", src.Type)
	}
}

func TestLoadUnknownType(t *testing.T) {
	if _, err := Load(Source{Type: SourceType("carrier-pigeon")}); err == nil {
		t.Error("expected an error for an unknown source type")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	touch(t, path, `[{"id":"a","title":"A"}]`, time.Now())

	nodes, err := Load(Source{Type: SourceTypeJSON, Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "a" {
		t.Errorf("got %v", nodes)
	}
}
