// Package nav is the navigation core: it turns the externally supplied page
// catalog into an indexed tree, answers substring queries over it while
// preserving ancestor context, groups root pages into sections, and owns the
// durable expand/collapse state.
//
// Everything in this package is pure data-structure work with no UI
// dependencies, so it can be exercised directly by tests and reused by the
// non-interactive output modes.
package nav

import (
	"fmt"

	"github.com/vanderheijden86/wikinav/pkg/model"
)

// Node is one entry of the built navigation tree. It wraps a CatalogNode
// with computed fields; the underlying catalog is never mutated.
type Node struct {
	ID      string
	Title   string
	Slug    string
	Status  model.PageStatus
	Section string

	// DescendantCount is the number of pages nested transitively under
	// this node: sum over direct children c of 1 + DescendantCount(c).
	// Always 0 for leaves; leaves never display a count.
	DescendantCount int

	Children []*Node
	Parent   *Node

	// Placeholder marks a node synthesized from malformed catalog data
	// (missing id or title). Placeholders render best-effort instead of
	// breaking the tree.
	Placeholder bool
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Index is a flat id → node lookup over a built tree.
type Index map[string]*Node

// Build converts a catalog into a navigation tree, computing descendant
// counts bottom-up in a single post-order pass.
//
// Build is a pure function of its input: the catalog may be empty (returns
// nil) and nodes may miss optional fields. Malformed nodes (missing id or
// title) fall back to stable positional placeholders rather than being
// dropped, since the UI must never hard-fail on partial catalog data.
func Build(catalog []model.CatalogNode) []*Node {
	roots, _ := BuildIndexed(catalog)
	return roots
}

// BuildIndexed is Build plus an id lookup index over all nodes.
// Duplicate ids keep the first occurrence in the index; the tree itself
// retains every node.
func BuildIndexed(catalog []model.CatalogNode) ([]*Node, Index) {
	idx := make(Index)
	if len(catalog) == 0 {
		return nil, idx
	}
	roots := make([]*Node, 0, len(catalog))
	for i := range catalog {
		roots = append(roots, buildNode(&catalog[i], nil, fmt.Sprintf("%d", i), idx))
	}
	return roots, idx
}

// buildNode builds one node and its subtree. path is the dotted position of
// the node in the catalog ("0.2.1"), used to synthesize stable placeholder
// ids for nodes that arrive without one.
func buildNode(cn *model.CatalogNode, parent *Node, path string, idx Index) *Node {
	n := &Node{
		ID:      cn.ID,
		Title:   cn.Title,
		Slug:    cn.Slug,
		Status:  cn.Status,
		Section: cn.Section,
		Parent:  parent,
	}

	if n.ID == "" {
		n.ID = "missing-" + path
		n.Placeholder = true
	}
	if n.Title == "" {
		n.Title = "(untitled)"
		n.Placeholder = true
	}

	if _, dup := idx[n.ID]; !dup {
		idx[n.ID] = n
	}

	if len(cn.Children) > 0 {
		n.Children = make([]*Node, 0, len(cn.Children))
		for i := range cn.Children {
			child := buildNode(&cn.Children[i], n, fmt.Sprintf("%s.%d", path, i), idx)
			n.Children = append(n.Children, child)
			n.DescendantCount += 1 + child.DescendantCount
		}
	}

	return n
}

// Ancestors returns the chain of ancestors from the root down to the node's
// direct parent. Returns nil for root nodes.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		chain = append([]*Node{cur}, chain...)
	}
	return chain
}

// Walk visits the node and all descendants in depth-first order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// WalkAll visits every node of a forest in depth-first order.
func WalkAll(roots []*Node, visit func(*Node)) {
	for _, r := range roots {
		r.Walk(visit)
	}
}
