package datasource

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/wikinav/pkg/catalog"
	"github.com/vanderheijden86/wikinav/pkg/debug"
	"github.com/vanderheijden86/wikinav/pkg/model"
)

// Load reads the catalog from a discovered source.
func Load(src Source) ([]model.CatalogNode, error) {
	start := time.Now()
	defer func() { debug.LogTiming(fmt.Sprintf("load %s", src.Type), time.Since(start)) }()

	switch src.Type {
	case SourceTypeJSON:
		return catalog.LoadFile(src.Path)
	case SourceTypeSQLite:
		return LoadSQLite(src.Path)
	case SourceTypeDocsDir:
		return catalog.LoadDocsDir(src.Path)
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}
