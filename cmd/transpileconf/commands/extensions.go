package commands

import (
	"fmt"
	"strings"
)

// ExtensionsCmd implements the 'extensions' command.
type ExtensionsCmd struct{}

func (c *ExtensionsCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	reg, err := s.registry()
	if err != nil {
		return err
	}
	defer reg.Clear()

	out := g.stdout()
	if reg.Count() == 0 {
		fmt.Fprintln(out, "No extensions configured")
		return nil
	}
	for _, name := range reg.Names() {
		active, err := reg.GetLatest(name)
		if err != nil {
			return err
		}
		for _, version := range reg.ListVersions(name) {
			ext, err := reg.Get(name, version)
			if err != nil {
				return err
			}
			meta := ext.Metadata()
			fmt.Fprintf(out, "%s [%s]", meta.String(), strings.Join(meta.Events, ","))
			if ext == active {
				fmt.Fprint(out, " (active)")
			}
			if meta.Description != "" {
				fmt.Fprintf(out, " %s", meta.Description)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
