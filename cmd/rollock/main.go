package main

import (
	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/rollock/internal/cli"
)

func main() {
	var root cli.CLI
	ctx := kong.Parse(&root,
		kong.Name("rollock"),
		kong.Description("Rolling-code lock control over a Bluetooth serial link"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&root))
}
