package nav

import "strings"

// Filter returns the subset of the tree whose titles match the query as a
// case-insensitive literal substring, plus all ancestors of matches so the
// user can see where a match lives in the hierarchy. Non-matching siblings
// of a match are dropped unless they match or contain matches themselves.
//
// An empty or whitespace-only query returns the tree unchanged (identity,
// not a copy). A query matching nothing returns nil.
//
// The query is always treated as literal text: regex metacharacters have no
// special meaning and cannot cause an error. Matching is monotonic:
// removing characters from the query never hides a previously matched node.
//
// Retained nodes are shallow copies with pruned child slices; the input tree
// and its expansion state are never mutated by filtering. DescendantCount is
// carried over unchanged: it describes the catalog, not the filtered view.
func Filter(tree []*Node, query string) []*Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tree
	}
	return filterNodes(tree, q)
}

func filterNodes(nodes []*Node, q string) []*Node {
	var kept []*Node
	for _, n := range nodes {
		if fn := filterNode(n, q); fn != nil {
			kept = append(kept, fn)
		}
	}
	return kept
}

// filterNode returns a pruned copy of n if n matches or any descendant
// matches, nil otherwise.
func filterNode(n *Node, q string) *Node {
	if n == nil {
		return nil
	}
	keptChildren := filterNodes(n.Children, q)
	if len(keptChildren) == 0 && !Matches(n, q) {
		return nil
	}
	cp := *n
	cp.Children = keptChildren
	return &cp
}

// Matches reports whether the node's own title contains the (already
// lowercased) query.
func Matches(n *Node, lowerQuery string) bool {
	if n == nil {
		return false
	}
	return strings.Contains(strings.ToLower(n.Title), lowerQuery)
}

// MatchSet walks the original tree and returns the ids of nodes whose own
// title matches the query. Used by the UI to distinguish direct matches
// from ancestors shown only for context.
func MatchSet(tree []*Node, query string) map[string]bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	matches := make(map[string]bool)
	WalkAll(tree, func(n *Node) {
		if Matches(n, q) {
			matches[n.ID] = true
		}
	})
	return matches
}
