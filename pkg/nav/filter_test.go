package nav

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/wikinav/pkg/model"
	"github.com/vanderheijden86/wikinav/pkg/testutil"
)

func ids(roots []*Node) []string {
	var out []string
	WalkAll(roots, func(n *Node) { out = append(out, n.ID) })
	return out
}

func idSet(roots []*Node) map[string]bool {
	set := make(map[string]bool)
	WalkAll(roots, func(n *Node) { set[n.ID] = true })
	return set
}

func TestFilterEmptyQueryIdentity(t *testing.T) {
	tree := Build(homeFixture())
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(tree, q)
		if len(got) != len(tree) {
			t.Fatalf("Filter(tree, %q) changed length", q)
		}
		for i := range got {
			if got[i] != tree[i] {
				t.Errorf("Filter(tree, %q) must return the identical slice elements", q)
			}
		}
	}
}

func TestFilterMatchAndAncestors(t *testing.T) {
	tree := Build(homeFixture())
	got := Filter(tree, "Section 2")

	set := idSet(got)
	if !set["home"] {
		t.Error("ancestor Home must be retained so the match has context")
	}
	if !set["s2"] {
		t.Error("matching Section 2 must be retained")
	}
	if set["s1"] || set["p11"] {
		t.Errorf("non-matching siblings must be pruned, got %v", ids(got))
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	tree := Build(homeFixture())
	for _, q := range []string{"section 2", "SECTION 2", "sEcTiOn 2"} {
		if got := Filter(tree, q); !idSet(got)["s2"] {
			t.Errorf("query %q should match Section 2", q)
		}
	}
}

func TestFilterDescendantMatchKeepsAncestorOnly(t *testing.T) {
	tree := Build(homeFixture())
	got := Filter(tree, "Page 1.1")

	set := idSet(got)
	for _, want := range []string{"home", "s1", "p11"} {
		if !set[want] {
			t.Errorf("expected %s in filtered tree, got %v", want, ids(got))
		}
	}
	if set["s2"] {
		t.Error("Section 2 neither matches nor contains a match; must be pruned")
	}
}

func TestFilterNoMatches(t *testing.T) {
	tree := Build(homeFixture())
	if got := Filter(tree, "zebra"); len(got) != 0 {
		t.Errorf("query with zero matches must return empty, got %v", ids(got))
	}
}

func TestFilterRegexMetacharsAreLiteral(t *testing.T) {
	tree := Build(homeFixture())

	// Must not panic, must not match anything in this fixture.
	if got := Filter(tree, ".*+?^${}[]|()"); len(got) != 0 {
		t.Errorf("metacharacter query should match nothing, got %v", ids(got))
	}

	// And when a title really contains metacharacters, a literal query
	// finds it.
	weird := Build([]model.CatalogNode{{ID: "cpp", Title: "C++ [Advanced] (notes)"}})
	for _, q := range []string{"c++", "[advanced]", "(notes)"} {
		if got := Filter(weird, q); !idSet(got)["cpp"] {
			t.Errorf("literal query %q should match the metacharacter title", q)
		}
	}
}

func TestFilterVeryLongQuery(t *testing.T) {
	tree := Build(homeFixture())
	long := strings.Repeat("x", 1<<16)
	if got := Filter(tree, long); len(got) != 0 {
		t.Errorf("absurdly long query should just match nothing, got %v", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tree := Build(homeFixture())
	before := len(tree[0].Children)

	Filter(tree, "Section 2")

	if len(tree[0].Children) != before {
		t.Error("filtering pruned the original tree's children")
	}
	if tree[0].Children[0].Title != "Section 1" {
		t.Error("filtering reordered the original tree")
	}
}

func TestFilterCarriesDescendantCount(t *testing.T) {
	tree := Build(homeFixture())
	got := Filter(tree, "Section 2")
	// The count describes the catalog, not the filtered view.
	if got[0].DescendantCount != 3 {
		t.Errorf("filtered Home count = %d, want original 3", got[0].DescendantCount)
	}
}

func TestMatchSet(t *testing.T) {
	tree := Build(homeFixture())

	if MatchSet(tree, "  ") != nil {
		t.Error("blank query should produce a nil match set")
	}

	m := MatchSet(tree, "section")
	if len(m) != 2 || !m["s1"] || !m["s2"] {
		t.Errorf("MatchSet = %v, want {s1, s2}", m)
	}
	if m["home"] {
		t.Error("Home does not itself match; ancestors are not matches")
	}
}

// TestFilterSoundness checks two filter laws on generated trees:
// every retained node matches or has a matching descendant in the original
// tree, and broadening the query never hides a previously matched node.
func TestFilterSoundness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := testutil.GeneratorConfig{
			Seed:     rapid.Int64().Draw(t, "seed"),
			Roots:    rapid.IntRange(1, 6).Draw(t, "roots"),
			MaxDepth: rapid.IntRange(0, 3).Draw(t, "depth"),
			MaxKids:  rapid.IntRange(0, 3).Draw(t, "kids"),
		}
		tree := Build(testutil.GenerateCatalog(cfg))

		query := rapid.StringMatching(`[0-9a-zA-Z ]{1,6}`).Draw(t, "query")
		q := strings.ToLower(strings.TrimSpace(query))
		if q == "" {
			return
		}

		byID := make(map[string]*Node)
		WalkAll(tree, func(n *Node) { byID[n.ID] = n })

		filtered := Filter(tree, query)
		WalkAll(filtered, func(n *Node) {
			orig, ok := byID[n.ID]
			if !ok {
				t.Fatalf("filtered node %s does not exist in the original tree", n.ID)
			}
			matched := false
			orig.Walk(func(d *Node) {
				if Matches(d, q) {
					matched = true
				}
			})
			if !matched {
				t.Fatalf("node %s retained without a matching self or descendant", n.ID)
			}
		})

		// Monotonicity: dropping the last rune broadens the query.
		runes := []rune(query)
		if len(runes) < 2 {
			return
		}
		broader := idSet(Filter(tree, string(runes[:len(runes)-1])))
		narrow := Filter(tree, query)
		WalkAll(narrow, func(n *Node) {
			if !broader[n.ID] {
				t.Fatalf("broadening the query hid node %s", n.ID)
			}
		})
	})
}

func BenchmarkFilter(b *testing.B) {
	cfg := testutil.DefaultConfig()
	cfg.Roots = 50
	cfg.MaxDepth = 4
	tree := Build(testutil.GenerateCatalog(cfg))
	b.ResetTimer()
	for b.Loop() {
		Filter(tree, "page 00")
	}
}
