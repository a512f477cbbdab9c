package project

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
)

// Scaffold creates a new dbt project under dir: dbt_project.yml, a
// packages.yml seeded with packages (empty when nil) and the conventional
// path directories. An existing dbt_project.yml is only overwritten when
// force is set; the directory creation itself is idempotent.
func Scaffold(dir, name, profileName string, packages Packages, force bool) (*Document, error) {
	projectPath := filepath.Join(dir, consts.ProjectFileName)
	if !force {
		if _, err := os.Stat(projectPath); err == nil {
			return nil, &cfgerr.DuplicateNameError{Kind: "project file", Name: projectPath}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to stat %s", projectPath)
		}
	}

	doc := NewDocument(name, profileName)
	doc.Packages = packages
	if err := Save(dir, doc); err != nil {
		return nil, err
	}

	for _, field := range PathFieldNames {
		for _, rel := range *doc.Project.pathField(field) {
			if err := os.MkdirAll(filepath.Join(dir, rel), consts.ModeDir); err != nil {
				return nil, errors.Wrapf(err, "failed to create %s", rel)
			}
		}
	}

	return doc, nil
}
