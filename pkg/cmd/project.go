package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/dbt"
	"github.com/spycner/brix/pkg/project"
	"github.com/spycner/brix/pkg/state"
	"github.com/urfave/cli/v3"
)

var projectActions = []string{
	"set-name",
	"set-profile",
	"set-version",
	"set-require-dbt-version",
	"add-path",
	"remove-path",
	"add-hub-package",
	"add-git-package",
	"add-local-package",
	"remove-package",
	"update-package-version",
}

// packageActions are the edit actions that touch the package manifest and so
// may warrant a dbt deps run afterwards.
var packageActions = []string{
	"add-hub-package",
	"add-git-package",
	"add-local-package",
	"remove-package",
	"update-package-version",
}

// projectCmd creates the `brix dbt project` command group for managing
// dbt_project.yml and its packages.yml manifest.
func projectCmd(runner dbt.Runner, store *state.Store) *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Manage the dbt project definition and its package manifest",
		Commands: []*cli.Command{
			projectInit(runner, store),
			projectShow(store),
			projectEdit(runner, store),
		},
	}
}

// runDeps invokes dbt deps in dir. Best effort: a failed run is reported but
// never fails the surrounding command, matching what dbt would tell the user
// to do by hand anyway.
func runDeps(ctx context.Context, cmd *cli.Command, runner dbt.Runner, dir string) {
	w := cmd.Root().Writer
	fmt.Fprintln(w, "Running dbt deps...")
	if err := runner.Run(ctx, dir, []string{"deps"}); err != nil {
		fmt.Fprintf(w, "dbt deps failed (%v); run it manually in %s\n", err, dir)
	}
}

// projectInit returns the command that scaffolds a fresh dbt project:
// dbt_project.yml, a packages.yml seeded with dbt_utils and the conventional
// directory layout, under <base-dir>/<name>. Prompts for the name when the
// flag is absent.
func projectInit(runner dbt.Runner, store *state.Store) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Scaffold a new dbt project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-name",
				Aliases: []string{"n"},
				Usage:   "name for the new project",
			},
			&cli.StringFlag{
				Name:        "profile",
				Usage:       "profile the project should reference",
				DefaultText: "the project name",
			},
			&cli.StringFlag{
				Name:    "base-dir",
				Usage:   "directory to create the project under",
				Value:   ".",
				Sources: cli.EnvVars(consts.EnvProjectBaseDir),
			},
			&cli.BoolFlag{
				Name:  "no-packages",
				Usage: "start with an empty package manifest",
			},
			&cli.BoolFlag{
				Name:  "deps",
				Usage: "run dbt deps after scaffolding",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing project file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.String("project-name")
			profileName := cmd.String("profile")

			var p *Prompter
			if name == "" {
				in := cmd.Root().Reader
				if in == nil {
					in = os.Stdin
				}
				p = NewPrompter(in, cmd.Root().Writer)

				var err error
				if name, err = p.Ask("Project name", ""); err != nil {
					return err
				}
				if profileName, err = p.Ask("Profile", name); err != nil {
					return err
				}
			}

			var packages project.Packages
			if !cmd.Bool("no-packages") {
				packages = project.Packages{&project.HubPackage{
					Name:    consts.DefaultHubPackage,
					Version: consts.DefaultHubPackageVersion,
				}}
			}

			dir := filepath.Join(cmd.String("base-dir"), name)
			doc, err := project.Scaffold(dir, name, profileName, packages, cmd.Bool("force"))
			if err != nil {
				return err
			}
			cacheProjectDir(store, dir)

			fmt.Fprintf(cmd.Root().Writer, "Created dbt project %q in %s (profile %q)\n",
				doc.Project.Name, dir, doc.Project.Profile)

			deps := cmd.Bool("deps")
			if !deps && p != nil && len(packages) > 0 {
				if deps, err = p.Confirm("Run dbt deps now?", false); err != nil {
					return err
				}
			}
			switch {
			case deps:
				runDeps(ctx, cmd, runner, dir)
			case len(packages) > 0:
				fmt.Fprintf(cmd.Root().Writer, "Run 'dbt deps' in %s to install packages.\n", dir)
			}
			return nil
		},
	}
}

func projectShow(store *state.Store) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the resolved project and a summary of its definition",
		Flags: []cli.Flag{
			projectDirFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := resolveProjectDir(cmd, store)
			if err != nil {
				return err
			}

			doc, err := project.Load(dir)
			if err != nil {
				return err
			}
			cacheProjectDir(store, dir)

			w := cmd.Root().Writer
			fmt.Fprintf(w, "Project directory: %s\n", dir)
			fmt.Fprintf(w, "Name: %s\n", doc.Project.Name)
			fmt.Fprintf(w, "Version: %s\n", doc.Project.Version)
			fmt.Fprintf(w, "Profile: %s\n", doc.Project.Profile)
			if doc.Project.RequireDbtVersion != "" {
				fmt.Fprintf(w, "Requires dbt: %s\n", doc.Project.RequireDbtVersion)
			}

			fmt.Fprintf(w, "Packages: %d\n", len(doc.Packages))
			for _, pkg := range doc.Packages {
				fmt.Fprintf(w, "  - %s (%s)\n", pkg.Identity(), pkg.Kind())
			}
			return nil
		},
	}
}

// projectEdit returns the command that applies a single named mutation to
// the project definition or its package manifest. Both files are rewritten
// in lockstep after a successful edit.
func projectEdit(runner dbt.Runner, store *state.Store) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit the project definition via --action",
		Flags: []cli.Flag{
			projectDirFlag(),
			&cli.StringFlag{
				Name:  "action",
				Usage: "one of: " + strings.Join(projectActions, ", "),
			},
			&cli.BoolFlag{Name: "deps", Usage: "run dbt deps after a package change"},
			&cli.StringFlag{Name: "value", Usage: "new value for set-* actions"},
			&cli.StringFlag{Name: "path-field", Usage: "path array to edit (e.g. model-paths)"},
			&cli.StringFlag{Name: "path", Usage: "path value to add or remove, or a local package path"},
			&cli.StringFlag{Name: "package", Usage: "package identity (hub name, git URL or local path)"},
			&cli.StringFlag{Name: "package-version", Usage: "hub package version"},
			&cli.StringFlag{Name: "git", Usage: "git package repository URL"},
			&cli.StringFlag{Name: "revision", Usage: "git package revision (tag, branch or commit)"},
			&cli.StringFlag{Name: "subdirectory", Usage: "subdirectory within the git repository"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			action := cmd.String("action")
			if action == "" {
				return cfgerr.NewValidation("action",
					"required; one of: "+strings.Join(projectActions, ", "))
			}

			dir, err := resolveProjectDir(cmd, store)
			if err != nil {
				return err
			}

			doc, err := project.Load(dir)
			if err != nil {
				return err
			}

			res, err := applyProjectAction(cmd, doc, action)
			if err != nil {
				return err
			}

			if res.Changed {
				if err := project.Save(dir, doc); err != nil {
					return err
				}
			}
			cacheProjectDir(store, dir)

			fmt.Fprintln(cmd.Root().Writer, res.Summary)

			if cmd.Bool("deps") && res.Changed && slices.Contains(packageActions, action) {
				runDeps(ctx, cmd, runner, dir)
			}
			return nil
		},
	}
}

func applyProjectAction(cmd *cli.Command, doc *project.Document, action string) (project.Result, error) {
	switch action {
	case "set-name":
		return doc.SetName(cmd.String("value"))

	case "set-profile":
		return doc.SetProfile(cmd.String("value"))

	case "set-version":
		return doc.SetVersion(cmd.String("value"))

	case "set-require-dbt-version":
		return doc.SetRequireDbtVersion(cmd.String("value"))

	case "add-path":
		return doc.AddPath(cmd.String("path-field"), cmd.String("path"))

	case "remove-path":
		return doc.RemovePath(cmd.String("path-field"), cmd.String("path"))

	case "add-hub-package":
		return doc.AddHubPackage(cmd.String("package"), cmd.String("package-version"))

	case "add-git-package":
		return doc.AddGitPackage(cmd.String("git"), cmd.String("revision"), cmd.String("subdirectory"))

	case "add-local-package":
		return doc.AddLocalPackage(cmd.String("path"))

	case "remove-package":
		return doc.RemovePackage(cmd.String("package"))

	case "update-package-version":
		return doc.UpdatePackageVersion(cmd.String("package"), cmd.String("package-version"))

	default:
		return project.Result{}, cfgerr.NewValidation("action",
			fmt.Sprintf("unknown action %q", action))
	}
}
