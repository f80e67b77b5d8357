package nav

// State is the durable part of the navigation UI: which nodes are expanded
// and which sections have been toggled away from their policy default.
//
// A node absent from Expanded is collapsed; every node starts collapsed.
// Sections absent from Sections use SectionPolicy defaults.
type State struct {
	Expanded map[string]bool // node id → expanded (set semantics; false entries are pruned)
	Sections map[string]bool // section name → expanded, persisted overrides only
}

// NewState returns an empty State with both maps allocated.
func NewState() State {
	return State{
		Expanded: make(map[string]bool),
		Sections: make(map[string]bool),
	}
}

// Clone returns a deep copy. Used to snapshot pre-search state and by the
// in-memory store.
func (s State) Clone() State {
	cp := NewState()
	for id, v := range s.Expanded {
		if v {
			cp.Expanded[id] = true
		}
	}
	for name, v := range s.Sections {
		cp.Sections[name] = v
	}
	return cp
}

// IsExpanded reports whether the node id is in the expanded set.
func (s State) IsExpanded(id string) bool { return s.Expanded[id] }

// Toggle flips the node's membership in the expanded set and reports the
// new state. Toggling twice always returns to the original membership.
func (s State) Toggle(id string) bool {
	if s.Expanded[id] {
		delete(s.Expanded, id)
		return false
	}
	s.Expanded[id] = true
	return true
}

// SetExpanded forces a node's expansion state.
func (s State) SetExpanded(id string, expanded bool) {
	if expanded {
		s.Expanded[id] = true
	} else {
		delete(s.Expanded, id)
	}
}

// ExpandPath expands every ancestor of the node so it becomes visible.
// The node itself is left untouched.
func (s State) ExpandPath(n *Node) {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		s.Expanded[cur.ID] = true
	}
}

// SectionExpanded resolves a section's effective state: a persisted override
// wins, otherwise the policy default applies.
func (s State) SectionExpanded(name string, policy SectionPolicy) bool {
	if v, ok := s.Sections[name]; ok {
		return v
	}
	return policy.DefaultExpanded(name)
}

// ToggleSection flips a section's effective state and records it as an
// override. Other sections and node expansion are unaffected.
func (s State) ToggleSection(name string, policy SectionPolicy) bool {
	next := !s.SectionExpanded(name, policy)
	s.Sections[name] = next
	return next
}

// Prune drops expanded ids that no longer exist in the tree, so state
// persisted against an older catalog does not accumulate stale entries.
// Section overrides are kept: a section may reappear later.
func (s State) Prune(idx Index) {
	for id := range s.Expanded {
		if _, ok := idx[id]; !ok {
			delete(s.Expanded, id)
		}
	}
}
