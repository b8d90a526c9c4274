package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/transpileconf/cmd/transpileconf/commands"
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("transpileconf"),
		kong.Description("Resolve the transform configuration of a site build"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
