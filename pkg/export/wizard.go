package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// DefaultSVGPath is offered when the user does not name an output file.
const DefaultSVGPath = "wiki-outline.svg"

// PromptOutputPath asks interactively for the SVG output path when the
// command line did not supply one. Only called from a TTY context; the
// non-interactive paths pass the flag value straight through.
func PromptOutputPath() (string, error) {
	path := DefaultSVGPath

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file").
				Description("Where to write the SVG outline.").
				Placeholder(DefaultSVGPath).
				Value(&path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a path is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	if !strings.HasSuffix(path, ".svg") {
		path += ".svg"
	}
	return path, nil
}
