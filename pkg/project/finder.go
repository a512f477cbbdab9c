package project

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
)

// Find walks upward from startDir looking for a directory that contains
// dbt_project.yml and returns its absolute path. The search stops at the
// filesystem root; exhausting it is a NotFoundError.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", startDir)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, consts.ProjectFileName))
		if err == nil && info.Mode().IsRegular() {
			return dir, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "failed to probe %s", dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &cfgerr.NotFoundError{Kind: "dbt project", Name: startDir}
		}
		dir = parent
	}
}
