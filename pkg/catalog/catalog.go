// Package catalog loads the wiki page catalog from its supported on-disk
// forms: a nested JSON catalog file, or a directory tree of markdown pages
// with YAML front matter. The catalog is the external input to the
// navigation core; this package normalizes shape but applies no policy
// (no status filtering, no access control; both are the supplier's job).
package catalog

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wikinav/pkg/model"
)

// CatalogFileName is the canonical catalog file name looked up by source
// discovery.
const CatalogFileName = "catalog.json"

// envelope tolerates the wrapped form some exporters produce.
type envelope struct {
	Pages []model.CatalogNode `json:"pages"`
}

// LoadFile reads a nested-JSON catalog. Both a bare array and a
// {"pages": [...]} envelope are accepted.
func LoadFile(path string) ([]model.CatalogNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON from memory.
func Parse(data []byte) ([]model.CatalogNode, error) {
	var nodes []model.CatalogNode
	if err := json.Unmarshal(data, &nodes); err == nil {
		return nodes, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return env.Pages, nil
}
