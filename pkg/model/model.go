// Package model defines the wiki catalog data types shared by the loader,
// the navigation core, and the UI.
//
// The catalog is externally supplied and treated as read-only: wikinav never
// mutates CatalogNode values after loading. Optional fields (status, section)
// may be absent in real-world catalogs and every consumer must tolerate that.
package model

import "strings"

// PageStatus is the publication state of a wiki page.
type PageStatus string

const (
	StatusPublished PageStatus = "published"
	StatusDraft     PageStatus = "draft"
	StatusArchived  PageStatus = "archived"
	// StatusUnknown is used when the catalog omits the status field.
	StatusUnknown PageStatus = ""
)

// ParseStatus normalizes a raw status string from a catalog source.
// Unrecognized values map to StatusUnknown rather than failing, so a
// catalog with a typo'd status still renders.
func ParseStatus(s string) PageStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "published":
		return StatusPublished
	case "draft":
		return StatusDraft
	case "archived":
		return StatusArchived
	default:
		return StatusUnknown
	}
}

// IsDraft reports whether the page should carry the draft badge.
func (s PageStatus) IsDraft() bool { return s == StatusDraft }

// Known reports whether the status is one of the recognized values.
func (s PageStatus) Known() bool {
	switch s {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// CatalogNode is one entry in the externally supplied page hierarchy.
// Children are ordered; insertion order is display order.
//
// ID and Title are required in well-formed catalogs, but loaders and the
// tree builder must degrade gracefully when either is missing (see
// nav.Build), since the UI must never hard-fail on partial catalog data.
type CatalogNode struct {
	ID       string        `json:"id" yaml:"id"`
	Title    string        `json:"title" yaml:"title"`
	Slug     string        `json:"slug" yaml:"slug"`
	Status   PageStatus    `json:"status,omitempty" yaml:"status,omitempty"`
	Section  string        `json:"section,omitempty" yaml:"section,omitempty"`
	Children []CatalogNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n CatalogNode) IsLeaf() bool { return len(n.Children) == 0 }
