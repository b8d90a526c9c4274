package commands

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/transpileconf/internal/config"
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/metrics"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Format string `short:"f" help:"Output format: json or yaml (overrides output.format)"`
	Output string `short:"o" help:"Write the configuration to this file instead of stdout"`
}

func (c *ResolveCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	format := s.cfg.Output.Format
	if c.Format != "" {
		format = config.NormalizeOutputFormat(c.Format)
		if format == "" {
			return ferrors.ValidationError("unknown output format " + c.Format).
				WithHint("use json or yaml").
				Build()
		}
	}

	reg, err := s.registry()
	if err != nil {
		return err
	}
	defer reg.Clear()

	res, err := s.resolver(reg, metrics.NoopRecorder{}).Resolve(context.Background(), s.request())
	if err != nil {
		return err
	}

	out := g.stdout()
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output file").
				WithContext(logfields.KeyPath, c.Output).
				Build()
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return writeConfig(out, res.Config, format)
}

// writeConfig renders cfg in format, keeping key order.
func writeConfig(w io.Writer, cfg value.Value, format config.OutputFormat) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.FormatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode configuration").Build()
	}
	if _, err := w.Write(data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration").Build()
	}
	return nil
}
