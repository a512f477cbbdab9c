package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/profile"
	"github.com/urfave/cli/v3"
)

// profileActions lists the non-interactive edit actions in wizard menu order.
var profileActions = []string{
	"add-profile",
	"delete-profile",
	"add-output",
	"edit-output",
	"delete-output",
	"set-target",
}

// profileCmd creates the `brix dbt profile` command group for managing the
// profiles.yml connection file.
func profileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the dbt connection profile file",
		Commands: []*cli.Command{
			profileInit(),
			profileShow(),
			profileEdit(),
		},
	}
}

func profilePathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "profile-path",
		Aliases:     []string{"p"},
		Usage:       "path to the profiles.yml file",
		Value:       consts.DefaultProfilesPath(),
		DefaultText: "~/.dbt/profiles.yml",
		Sources:     cli.EnvVars(consts.EnvProfilePath),
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// profileInit returns the command that writes the starter profiles.yml: a
// single profile with a local DuckDB dev target, ready for `dbt run`.
func profileInit() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter profiles.yml",
		Flags: []cli.Flag{
			profilePathFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("profile-path")
			if err := profile.Init(path, cmd.Bool("force")); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "Created starter profile file at %s\n", path)
			return nil
		},
	}
}

func profileShow() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the resolved profile file and its contents",
		Flags: []cli.Flag{
			profilePathFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			path := cmd.String("profile-path")

			doc, err := profile.LoadFile(path)
			if errors.Is(err, cfgerr.ErrNotFound) {
				fmt.Fprintf(w, "Profile file: %s (missing, run `brix dbt profile init`)\n", path)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "Profile file: %s\n", path)
			fmt.Fprintf(w, "Profiles: %d\n\n", doc.Len())
			return profile.Encode(w, doc)
		},
	}
}

// profileEdit returns the command that applies a single named mutation to
// profiles.yml. With --action the arguments come from flags; without it an
// interactive wizard gathers the same values and calls the same editor, so
// both paths share validation and persistence.
func profileEdit() *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit the profile file, interactively or via --action",
		Flags: []cli.Flag{
			profilePathFlag(),
			&cli.StringFlag{
				Name:  "action",
				Usage: "one of: add-profile, delete-profile, add-output, edit-output, delete-output, set-target",
			},
			&cli.StringFlag{Name: "profile", Usage: "profile name to operate on"},
			&cli.StringFlag{Name: "output", Usage: "output name to operate on"},
			&cli.StringFlag{Name: "type", Usage: "output adapter type (duckdb or databricks)"},
			&cli.StringFlag{Name: "path", Usage: "duckdb database path (or \"memory\")"},
			&cli.IntFlag{Name: "threads", Usage: "duckdb thread count", Value: consts.DefaultThreads},
			&cli.StringSliceFlag{Name: "extensions", Usage: "duckdb extension to load (repeatable)"},
			&cli.StringSliceFlag{Name: "settings", Usage: "duckdb setting as key=value (repeatable)"},
			&cli.StringFlag{Name: "host", Usage: "databricks workspace host"},
			&cli.StringFlag{Name: "http-path", Usage: "databricks warehouse HTTP path"},
			&cli.StringFlag{Name: "catalog", Usage: "databricks catalog"},
			&cli.StringFlag{Name: "schema", Usage: "databricks schema"},
			&cli.StringFlag{Name: "auth-type", Usage: "databricks auth (oauth-u2m, oauth-m2m, token)"},
			&cli.StringFlag{Name: "token", Usage: "databricks access token"},
			&cli.StringFlag{Name: "client-id", Usage: "databricks oauth client id"},
			&cli.StringFlag{Name: "client-secret", Usage: "databricks oauth client secret"},
			&cli.StringFlag{Name: "target", Usage: "default target output name"},
			&cli.BoolFlag{Name: "force", Usage: "skip confirmation for destructive actions"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("profile-path")

			doc, err := profile.LoadFile(path)
			if errors.Is(err, cfgerr.ErrNotFound) {
				doc = profile.NewDocument()
			} else if err != nil {
				return err
			}

			var res profile.Result
			if action := cmd.String("action"); action != "" {
				res, err = applyProfileAction(cmd, doc, action)
			} else {
				res, err = runProfileWizard(cmd, doc)
			}
			if err != nil {
				return err
			}

			if res.Changed {
				if err := profile.SaveFile(path, doc); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.Root().Writer, res.Summary)
			return nil
		},
	}
}

func applyProfileAction(cmd *cli.Command, doc *profile.Document, action string) (profile.Result, error) {
	profileName := cmd.String("profile")
	outputName := cmd.String("output")

	switch action {
	case "add-profile":
		return doc.AddProfile(profileName)

	case "delete-profile":
		return doc.DeleteProfile(profileName, cmd.Bool("force"))

	case "add-output":
		out, err := outputFromFlags(cmd)
		if err != nil {
			return profile.Result{}, err
		}
		return doc.AddOutput(profileName, outputName, out)

	case "edit-output":
		out, err := outputFromFlags(cmd)
		if err != nil {
			return profile.Result{}, err
		}
		return doc.EditOutput(profileName, outputName, out)

	case "delete-output":
		return doc.DeleteOutput(profileName, outputName)

	case "set-target":
		return doc.SetTarget(profileName, cmd.String("target"))

	default:
		return profile.Result{}, cfgerr.NewValidation("action",
			fmt.Sprintf("unknown action %q", action))
	}
}

// outputFromFlags builds the output value for add-output/edit-output from
// the per-adapter flags. Validation happens in the editor, not here.
func outputFromFlags(cmd *cli.Command) (profile.Output, error) {
	switch cmd.String("type") {
	case profile.TypeDuckDB, "":
		settings, err := parseKeyValues("settings", cmd.StringSlice("settings"))
		if err != nil {
			return nil, err
		}
		return &profile.DuckDBOutput{
			Path:       cmd.String("path"),
			Threads:    int(cmd.Int("threads")),
			Extensions: cmd.StringSlice("extensions"),
			Settings:   settings,
		}, nil

	case profile.TypeDatabricks:
		return &profile.DatabricksOutput{
			Host:         cmd.String("host"),
			HTTPPath:     cmd.String("http-path"),
			Catalog:      cmd.String("catalog"),
			Schema:       cmd.String("schema"),
			AuthType:     cmd.String("auth-type"),
			Token:        cmd.String("token"),
			ClientID:     cmd.String("client-id"),
			ClientSecret: cmd.String("client-secret"),
		}, nil

	default:
		return nil, cfgerr.NewValidation("type",
			fmt.Sprintf("unknown adapter type %q (expected %q or %q)",
				cmd.String("type"), profile.TypeDuckDB, profile.TypeDatabricks))
	}
}

func runProfileWizard(cmd *cli.Command, doc *profile.Document) (profile.Result, error) {
	in := cmd.Root().Reader
	if in == nil {
		in = os.Stdin
	}
	p := NewPrompter(in, cmd.Root().Writer)

	action, err := p.Select("What do you want to do", profileActions)
	if err != nil {
		return profile.Result{}, err
	}

	profileName, err := p.Ask("Profile name", cmd.String("profile"))
	if err != nil {
		return profile.Result{}, err
	}

	switch action {
	case "add-profile":
		return doc.AddProfile(profileName)

	case "delete-profile":
		force := cmd.Bool("force")
		if !force {
			if force, err = p.Confirm("Delete the profile and all its outputs", false); err != nil {
				return profile.Result{}, err
			}
		}
		return doc.DeleteProfile(profileName, force)

	case "add-output", "edit-output":
		outputName, err := p.Ask("Output name", cmd.String("output"))
		if err != nil {
			return profile.Result{}, err
		}
		out, err := promptOutput(p)
		if err != nil {
			return profile.Result{}, err
		}
		if action == "edit-output" {
			return doc.EditOutput(profileName, outputName, out)
		}
		return doc.AddOutput(profileName, outputName, out)

	case "delete-output":
		outputName, err := p.Ask("Output name", cmd.String("output"))
		if err != nil {
			return profile.Result{}, err
		}
		return doc.DeleteOutput(profileName, outputName)

	case "set-target":
		target, err := p.Ask("Default target", cmd.String("target"))
		if err != nil {
			return profile.Result{}, err
		}
		return doc.SetTarget(profileName, target)
	}

	return profile.Result{}, cfgerr.NewValidation("action", fmt.Sprintf("unknown action %q", action))
}

func promptOutput(p *Prompter) (profile.Output, error) {
	adapter, err := p.Select("Adapter type", []string{profile.TypeDuckDB, profile.TypeDatabricks})
	if err != nil {
		return nil, err
	}

	if adapter == profile.TypeDuckDB {
		path, err := p.Ask("Database path (or \"memory\")", "./dev.duckdb")
		if err != nil {
			return nil, err
		}
		threads, err := p.AskInt("Threads", consts.DefaultThreads)
		if err != nil {
			return nil, err
		}
		return &profile.DuckDBOutput{Path: path, Threads: threads}, nil
	}

	out := &profile.DatabricksOutput{}
	for _, field := range []struct {
		label string
		dest  *string
	}{
		{"Workspace host", &out.Host},
		{"Warehouse HTTP path", &out.HTTPPath},
		{"Catalog", &out.Catalog},
		{"Schema", &out.Schema},
	} {
		if *field.dest, err = p.Ask(field.label, ""); err != nil {
			return nil, err
		}
	}

	if out.AuthType, err = p.Select("Auth type", []string{profile.AuthOAuthU2M, profile.AuthOAuthM2M, profile.AuthToken}); err != nil {
		return nil, err
	}

	switch out.AuthType {
	case profile.AuthToken:
		if out.Token, err = p.Ask("Access token", ""); err != nil {
			return nil, err
		}
	case profile.AuthOAuthM2M:
		if out.ClientID, err = p.Ask("Client ID", ""); err != nil {
			return nil, err
		}
		if out.ClientSecret, err = p.Ask("Client secret", ""); err != nil {
			return nil, err
		}
	}

	return out, nil
}
