package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/moxide/cmd/moxide/commands"
	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/version"
)

func main() {
	if err := commands.LoadEnv(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: failed to load .env:", err)
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("moxide"),
		kong.Description("Build a static site from front-matter markdown entries."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
