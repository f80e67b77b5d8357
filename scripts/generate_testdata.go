//go:build ignore

// generate_testdata writes a synthetic catalog.json for manual testing:
//
//	go run scripts/generate_testdata.go -roots 8 -depth 4 -out catalog.json
package main

import (
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wikinav/pkg/testutil"
)

func main() {
	roots := flag.Int("roots", 8, "Number of root pages")
	depth := flag.Int("depth", 3, "Maximum nesting depth")
	kids := flag.Int("kids", 4, "Maximum children per branch")
	seed := flag.Int64("seed", 42, "Random seed")
	out := flag.String("out", "catalog.json", "Output file")
	flag.Parse()

	cfg := testutil.DefaultConfig()
	cfg.Roots = *roots
	cfg.MaxDepth = *depth
	cfg.MaxKids = *kids
	cfg.Seed = *seed

	catalog := testutil.GenerateCatalog(cfg)
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d pages to %s\n", testutil.CountNodes(catalog), *out)
}
