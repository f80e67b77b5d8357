package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo

	"github.com/vanderheijden86/wikinav/pkg/model"
)

// pageRow mirrors one row of the wiki.db pages table.
type pageRow struct {
	id       string
	title    sql.NullString
	slug     sql.NullString
	status   sql.NullString
	section  sql.NullString
	parentID sql.NullString
	position sql.NullInt64
}

// LoadSQLite reads the pages table from a wiki.db database and reconstructs
// the nested catalog shape. Rows referencing a missing parent are promoted
// to roots rather than dropped, so partial data still navigates.
//
// Expected schema:
//
//	CREATE TABLE pages (
//	    id        TEXT PRIMARY KEY,
//	    title     TEXT,
//	    slug      TEXT,
//	    status    TEXT,
//	    section   TEXT,
//	    parent_id TEXT,
//	    position  INTEGER
//	);
func LoadSQLite(path string) ([]model.CatalogNode, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, title, slug, status, section, parent_id, position
		FROM pages ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []pageRow
	for rows.Next() {
		var r pageRow
		if err := rows.Scan(&r.id, &r.title, &r.slug, &r.status, &r.section, &r.parentID, &r.position); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pages: %w", err)
	}

	return assemble(pages), nil
}

// assemble nests flat parent-referencing rows into the catalog shape,
// preserving query order among siblings.
func assemble(pages []pageRow) []model.CatalogNode {
	exists := make(map[string]bool, len(pages))
	for _, p := range pages {
		exists[p.id] = true
	}

	childOrder := make(map[string][]int)
	var rootOrder []int
	for i, p := range pages {
		parent := p.parentID.String
		if p.parentID.Valid && parent != "" && parent != p.id && exists[parent] {
			childOrder[parent] = append(childOrder[parent], i)
		} else {
			rootOrder = append(rootOrder, i)
		}
	}

	// seen guards against parent_id cycles in hand-edited databases: a row
	// is emitted at most once, wherever it is reached first.
	seen := make(map[string]bool, len(pages))
	var build func(i int) (model.CatalogNode, bool)
	build = func(i int) (model.CatalogNode, bool) {
		p := pages[i]
		if seen[p.id] {
			return model.CatalogNode{}, false
		}
		seen[p.id] = true
		node := model.CatalogNode{
			ID:      p.id,
			Title:   p.title.String,
			Slug:    p.slug.String,
			Status:  model.ParseStatus(p.status.String),
			Section: p.section.String,
		}
		for _, ci := range childOrder[p.id] {
			if c, ok := build(ci); ok {
				node.Children = append(node.Children, c)
			}
		}
		return node, true
	}

	out := make([]model.CatalogNode, 0, len(rootOrder))
	for _, i := range rootOrder {
		if n, ok := build(i); ok {
			out = append(out, n)
		}
	}
	// Rows trapped in a parent cycle are reachable from no root; promote
	// the first member and nest the rest under it.
	for i, p := range pages {
		if !seen[p.id] {
			if n, ok := build(i); ok {
				out = append(out, n)
			}
		}
	}
	return out
}
