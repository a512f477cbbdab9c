package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/dbt"
	"github.com/spycner/brix/pkg/updates"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
		Updates    *updates.Checker
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the main brix CLI application. It wires the
// registered commands into the root command, installs logging from the
// global flags, and maps the outcome onto the process exit code: passthrough
// invocations mirror the dbt child's code, configuration errors exit 2, and
// anything else unexpected exits 1.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "brix",
		Usage: "A convenience layer over the dbt CLI",
		Description: `brix scaffolds and edits the two YAML files every dbt project depends on
(profiles.yml and dbt_project.yml with its packages.yml manifest) and passes
every other command through to the dbt binary unchanged.`,
		Version:               p.Version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars(consts.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to this file instead of stderr",
				Sources: cli.EnvVars(consts.EnvLogFile),
			},
			&cli.BoolFlag{
				Name:    "json-logs",
				Usage:   "emit logs as JSON",
				Sources: cli.EnvVars(consts.EnvJSONLogs),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureLogging(cmd)

			if notice := p.Updates.Notice(p.Version.Version); notice != "" {
				_, _ = color.New(color.FgYellow).Fprintln(os.Stderr, notice)
			}
			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			_ = p.Shutdowner.Shutdown(fx.ExitCode(exitCode(err)))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

// exitCode maps an error from a command run onto the process exit code.
func exitCode(err error) int {
	var exitErr *dbt.ExitError
	if errors.As(err, &exitErr) {
		// The child already reported itself; mirror its code silently.
		return exitErr.Code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if cfgerr.IsConfigError(err) {
		return 2
	}

	slog.Error("Error running command", "err", err)
	return 1
}
