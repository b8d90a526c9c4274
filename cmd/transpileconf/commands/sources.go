package commands

import (
	"context"
	"fmt"
	"os"
)

// SourcesCmd implements the 'sources' command.
type SourcesCmd struct{}

func (c *SourcesCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	out := g.stdout()

	fmt.Fprintf(out, "Site root: %s\n", s.site.Directory)
	selected := false
	for _, p := range s.locator().Explain(context.Background(), os.DirFS(s.site.Directory)) {
		mark := " "
		if p.Selected {
			mark = "*"
			selected = true
		}
		line := fmt.Sprintf("%s %-22s %s", mark, p.Source, p.Outcome)
		if p.Err != nil {
			line += " (" + p.Err.Error() + ")"
		}
		fmt.Fprintln(out, line)
	}
	if !selected {
		fmt.Fprintln(out, "* defaults")
	}
	return nil
}
