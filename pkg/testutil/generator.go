// Package testutil generates deterministic catalog fixtures for tests and
// benchmarks. All generators take an explicit seed so failures reproduce.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/wikinav/pkg/model"
)

// GeneratorConfig controls catalog generation.
type GeneratorConfig struct {
	Seed     int64    // random seed; fixed per test for reproducibility
	Roots    int      // number of root nodes
	MaxDepth int      // maximum nesting depth below a root
	MaxKids  int      // maximum children per branch node
	Sections []string // section names assigned round-robin to roots ("" allowed)
	Statuses []model.PageStatus
}

// DefaultConfig returns a config that produces a moderately bushy tree.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		Roots:    6,
		MaxDepth: 3,
		MaxKids:  4,
		Sections: []string{"Guides", "Reference", ""},
		Statuses: []model.PageStatus{model.StatusPublished, model.StatusPublished, model.StatusDraft},
	}
}

// GenerateCatalog produces a deterministic nested catalog.
func GenerateCatalog(cfg GeneratorConfig) []model.CatalogNode {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Roots <= 0 {
		return nil
	}

	counter := 0
	var gen func(depth int) model.CatalogNode
	gen = func(depth int) model.CatalogNode {
		counter++
		id := fmt.Sprintf("page-%04d", counter)
		node := model.CatalogNode{
			ID:    id,
			Title: fmt.Sprintf("Page %04d", counter),
			Slug:  id,
		}
		if len(cfg.Statuses) > 0 {
			node.Status = cfg.Statuses[rng.Intn(len(cfg.Statuses))]
		}
		if depth < cfg.MaxDepth && cfg.MaxKids > 0 {
			for range rng.Intn(cfg.MaxKids + 1) {
				node.Children = append(node.Children, gen(depth+1))
			}
		}
		return node
	}

	out := make([]model.CatalogNode, 0, cfg.Roots)
	for i := range cfg.Roots {
		root := gen(0)
		if len(cfg.Sections) > 0 {
			root.Section = cfg.Sections[i%len(cfg.Sections)]
		}
		out = append(out, root)
	}
	return out
}

// CountNodes returns the total node count of a catalog, all levels included.
func CountNodes(catalog []model.CatalogNode) int {
	total := 0
	for _, n := range catalog {
		total += 1 + CountNodes(n.Children)
	}
	return total
}
