package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/dbt"
	"github.com/spycner/brix/pkg/state"
	"github.com/urfave/cli/v3"
)

// dbtCmd creates the `brix dbt` command group. The profile and project
// subcommands own the two managed YAML files; any other argument list is
// forwarded verbatim to the dbt binary, running in the resolved project
// directory with brix completely out of the way.
//
// Example usage:
//
//	# Managed configuration
//	brix dbt profile init
//	brix dbt project edit --action add-hub-package --package dbt-labs/dbt_utils --package-version 1.1.1
//
//	# Everything else goes straight through
//	brix dbt run --select my_model
//	brix dbt test
func dbtCmd(runner dbt.Runner, store *state.Store) *cli.Command {
	return &cli.Command{
		Name:  "dbt",
		Usage: "Manage dbt configuration, or forward any other command to dbt",
		Flags: []cli.Flag{
			projectDirFlag(),
		},
		Commands: []*cli.Command{
			profileCmd(),
			projectCmd(runner, store),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return cli.ShowSubcommandHelp(cmd)
			}

			dir, err := resolveProjectDir(cmd, store)
			switch {
			case err == nil:
				cacheProjectDir(store, dir)
			case errors.Is(err, cfgerr.ErrNotFound):
				// Not every dbt invocation needs a project (dbt init, dbt
				// --version); let dbt decide from the working directory.
				if dir, err = os.Getwd(); err != nil {
					return errors.Wrap(err, "failed to get current working directory")
				}
			default:
				return err
			}

			slog.Debug("forwarding to dbt", "dir", dir, "args", args)
			return runner.Run(ctx, dir, args)
		},
	}
}
