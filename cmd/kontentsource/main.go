package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kontentsource/cmd/kontentsource/commands"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("kontentsource"),
		kong.Description("Source Kontent Delivery API content as decorated graph nodes."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
