package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/project"
	"github.com/spycner/brix/pkg/state"
	"github.com/urfave/cli/v3"
)

// projectDirFlag is shared by every command that operates on a project.
func projectDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "project-dir",
		Usage:       "the dbt project directory",
		DefaultText: "auto-detected",
		Sources:     cli.EnvVars(consts.EnvProjectDir),
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// resolveProjectDir finds the project directory for a command: the
// --project-dir flag (or its environment source) wins, then the cached last
// path if it still holds a project file, then an upward search from the
// working directory.
func resolveProjectDir(cmd *cli.Command, store *state.Store) (string, error) {
	// The flag folds in its environment source, so the env leg is already
	// covered by the time we get here.
	cached := store.Load().LastProjectPath
	if cached != "" {
		if _, err := os.Stat(filepath.Join(cached, consts.ProjectFileName)); err != nil {
			cached = ""
		}
	}

	if dir := state.Resolve(cmd.String("project-dir"), "", cached, ""); dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get current working directory")
	}
	return project.Find(cwd)
}

// cacheProjectDir remembers the project directory for the next invocation.
// Best effort; a failed save only costs a future re-resolution.
func cacheProjectDir(store *state.Store, dir string) {
	st := store.Load()
	st.LastProjectPath = dir
	_ = store.Save(st)
}

// parseKeyValues parses "key=value" pairs from repeated flag values.
func parseKeyValues(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, cfgerr.NewValidation(flag, "values must be key=value pairs")
		}
		m[key] = value
	}
	return m, nil
}
