package nav

// UngroupedSection is the name of the bucket holding root pages without a
// section attribute. It always renders after all named sections; that
// ordering is part of the UI contract and must stay stable.
const UngroupedSection = ""

// SectionGroup is one named partition of the root-level nodes. Children
// inherit visibility from their root's section; they are never re-grouped
// independently.
type SectionGroup struct {
	Name  string // UngroupedSection for the default bucket
	Nodes []*Node
}

// GroupSections partitions root nodes by their Section attribute. Named
// sections appear in first-seen input order; the ungrouped bucket, when
// non-empty, is appended last. Node order inside each group preserves
// catalog order.
func GroupSections(roots []*Node) []SectionGroup {
	var groups []SectionGroup
	pos := make(map[string]int)
	var ungrouped []*Node

	for _, n := range roots {
		if n == nil {
			continue
		}
		if n.Section == UngroupedSection {
			ungrouped = append(ungrouped, n)
			continue
		}
		i, seen := pos[n.Section]
		if !seen {
			i = len(groups)
			pos[n.Section] = i
			groups = append(groups, SectionGroup{Name: n.Section})
		}
		groups[i].Nodes = append(groups[i].Nodes, n)
	}

	if len(ungrouped) > 0 {
		groups = append(groups, SectionGroup{Name: UngroupedSection, Nodes: ungrouped})
	}
	return groups
}

// SectionPolicy decides the default expand state for sections that have no
// persisted override. Sections are expanded by default except the ones on
// the collapsed list; the list is configuration, not a structural rule, and
// persisted state always wins over it.
type SectionPolicy struct {
	Collapsed []string
}

// DefaultSectionPolicy collapses the Regression-Testing section, the one
// grouping that is noise for day-to-day navigation.
func DefaultSectionPolicy() SectionPolicy {
	return SectionPolicy{Collapsed: []string{"Regression-Testing"}}
}

// DefaultExpanded reports the policy default for a section name.
// The ungrouped bucket is always expanded by default.
func (p SectionPolicy) DefaultExpanded(name string) bool {
	if name == UngroupedSection {
		return true
	}
	for _, c := range p.Collapsed {
		if c == name {
			return false
		}
	}
	return true
}
