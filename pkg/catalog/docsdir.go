package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/wikinav/pkg/model"
)

// Front matter is optional on every page; files without it still become
// catalog nodes with title derived from the filename.
type frontMatter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Slug    string `yaml:"slug"`
	Status  string `yaml:"status"`
	Section string `yaml:"section"`
	Order   int    `yaml:"order"`
}

// indexFileNames are recognized as a directory's own page, in priority order.
var indexFileNames = []string{"index.md", "_index.md", "README.md"}

// parseLimit caps concurrent front-matter reads; docs trees can hold
// thousands of small files and unbounded fan-out just thrashes the disk.
const parseLimit = 8

// LoadDocsDir synthesizes a catalog from a directory tree of markdown files.
// Directory nesting supplies the hierarchy: a subdirectory becomes a branch
// node (its own metadata taken from an index.md if present), every other
// *.md file becomes a leaf. Siblings order by front-matter `order`, then
// name. Hidden entries are skipped.
func LoadDocsDir(dir string) ([]model.CatalogNode, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	// Phase 1: collect every markdown path so front matter can be parsed
	// concurrently before the (cheap, sequential) tree assembly.
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(name, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning docs directory: %w", err)
	}

	meta := make([]frontMatter, len(paths))
	var g errgroup.Group
	g.SetLimit(parseLimit)
	for i, p := range paths {
		g.Go(func() error {
			fm, err := readFrontMatter(p)
			if err != nil {
				// A malformed page still earns a node; the tree must
				// never fail wholesale on one bad file.
				return nil
			}
			meta[i] = fm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPath := make(map[string]frontMatter, len(paths))
	for i, p := range paths {
		byPath[p] = meta[i]
	}

	return buildDirNodes(dir, dir, byPath)
}

// buildDirNodes assembles the catalog nodes for one directory level.
func buildDirNodes(root, dir string, meta map[string]frontMatter) ([]model.CatalogNode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	type ordered struct {
		node  model.CatalogNode
		order int
		name  string
	}
	var nodes []ordered

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if e.IsDir() {
			children, err := buildDirNodes(root, path, meta)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			fm, ord := dirIndexMeta(path, meta)
			node := nodeFromMeta(root, path, name, fm)
			node.Children = children
			nodes = append(nodes, ordered{node: node, order: ord, name: name})
			continue
		}

		if !strings.HasSuffix(name, ".md") || isIndexFile(name) {
			continue
		}
		fm := meta[path]
		node := nodeFromMeta(root, path, strings.TrimSuffix(name, ".md"), fm)
		nodes = append(nodes, ordered{node: node, order: fm.Order, name: name})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].order != nodes[j].order {
			return nodes[i].order < nodes[j].order
		}
		return nodes[i].name < nodes[j].name
	})

	out := make([]model.CatalogNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.node)
	}
	return out, nil
}

// dirIndexMeta finds the front matter of a directory's index file, if any.
func dirIndexMeta(dir string, meta map[string]frontMatter) (frontMatter, int) {
	for _, idx := range indexFileNames {
		if fm, ok := meta[filepath.Join(dir, idx)]; ok {
			return fm, fm.Order
		}
	}
	return frontMatter{}, 0
}

func isIndexFile(name string) bool {
	for _, idx := range indexFileNames {
		if name == idx {
			return true
		}
	}
	return false
}

// nodeFromMeta builds a catalog node from front matter, filling gaps from
// the file's position: path-derived id and slug, filename-derived title.
func nodeFromMeta(root, path, fallbackTitle string, fm frontMatter) model.CatalogNode {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".md")

	node := model.CatalogNode{
		ID:      fm.ID,
		Title:   fm.Title,
		Slug:    fm.Slug,
		Status:  model.ParseStatus(fm.Status),
		Section: fm.Section,
	}
	if node.ID == "" {
		node.ID = rel
	}
	if node.Slug == "" {
		node.Slug = rel
	}
	if node.Title == "" {
		node.Title = titleFromName(fallbackTitle)
	}
	return node
}

// titleFromName turns "getting-started" into "Getting Started".
func titleFromName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}

// readFrontMatter extracts the YAML block between leading "---" fences.
// Files without a fence return an empty frontMatter and no error.
func readFrontMatter(path string) (frontMatter, error) {
	var fm frontMatter
	data, err := os.ReadFile(path)
	if err != nil {
		return fm, err
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")) // BOM
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return fm, nil
	}
	rest := data[bytes.IndexByte(data, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, fmt.Errorf("front matter in %s: %w", path, err)
	}
	return fm, nil
}
