package main

import (
	"context"
	"os"

	"github.com/spycner/brix/pkg/cmd"
	"github.com/spycner/brix/pkg/dbt"
	"github.com/spycner/brix/pkg/state"
	"github.com/spycner/brix/pkg/updates"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			func() context.Context { return context.Background() },
			func() []string { return os.Args },
			func() *cmd.Version {
				return &cmd.Version{Version: version, Commit: commit, Timestamp: date}
			},
			dbt.NewRunner,
		),
		state.Module,
		updates.Module,
		cmd.Module,
	).Run()
}
