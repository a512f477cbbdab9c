package project

import (
	"fmt"
	"slices"

	"github.com/spycner/brix/pkg/cfgerr"
)

// Result describes the outcome of a successful editor operation.
type Result struct {
	// Summary is a human-readable record of what changed.
	Summary string

	// Changed is false for lenient no-op outcomes.
	Changed bool
}

// Editor operations validate their arguments fully before mutating the
// document: when an operation returns an error the document is unchanged.

// SetName renames the project.
func (d *Document) SetName(name string) (Result, error) {
	if err := validateIdentifier("name", name); err != nil {
		return Result{}, err
	}
	d.Project.Name = name
	return Result{Summary: fmt.Sprintf("set project name to %q", name), Changed: true}, nil
}

// SetProfile repoints the project at a different connection profile. Whether
// the profile exists in profiles.yml is not checked; the two files are
// independent artifacts.
func (d *Document) SetProfile(name string) (Result, error) {
	if err := validateIdentifier("profile", name); err != nil {
		return Result{}, err
	}
	d.Project.Profile = name
	return Result{Summary: fmt.Sprintf("set profile to %q", name), Changed: true}, nil
}

// SetVersion sets the project's semantic version.
func (d *Document) SetVersion(version string) (Result, error) {
	if err := validateVersion("version", version); err != nil {
		return Result{}, err
	}
	d.Project.Version = version
	return Result{Summary: fmt.Sprintf("set project version to %q", version), Changed: true}, nil
}

// SetRequireDbtVersion sets the dbt version constraint. An empty value clears
// the constraint.
func (d *Document) SetRequireDbtVersion(constraint string) (Result, error) {
	if constraint == "" {
		d.Project.RequireDbtVersion = ""
		return Result{Summary: "cleared require-dbt-version", Changed: true}, nil
	}
	if err := validateConstraint("require-dbt-version", constraint); err != nil {
		return Result{}, err
	}
	d.Project.RequireDbtVersion = constraint
	return Result{Summary: fmt.Sprintf("set require-dbt-version to %q", constraint), Changed: true}, nil
}

// AddPath appends a value to one of the fixed path arrays. Adding a value
// that is already present is a no-op that still reports success.
func (d *Document) AddPath(field, path string) (Result, error) {
	values, err := d.pathFieldFor(field)
	if err != nil {
		return Result{}, err
	}
	if path == "" {
		return Result{}, cfgerr.NewValidation(field, "path value is required")
	}

	if slices.Contains(*values, path) {
		return Result{Summary: fmt.Sprintf("%q already present in %s, nothing added", path, field)}, nil
	}

	*values = append(*values, path)
	return Result{Summary: fmt.Sprintf("added %q to %s", path, field), Changed: true}, nil
}

// RemovePath removes a value from one of the fixed path arrays. Removing a
// value that is not present is a no-op that still reports success, so
// idempotent scripts can call it repeatedly.
func (d *Document) RemovePath(field, path string) (Result, error) {
	values, err := d.pathFieldFor(field)
	if err != nil {
		return Result{}, err
	}

	if !slices.Contains(*values, path) {
		return Result{Summary: fmt.Sprintf("%q not found in %s, nothing removed", path, field)}, nil
	}

	*values = slices.DeleteFunc(*values, func(v string) bool { return v == path })
	return Result{Summary: fmt.Sprintf("removed %q from %s", path, field), Changed: true}, nil
}

// AddHubPackage appends a hub package. Duplicates are permitted; the list is
// kept exactly as authored.
func (d *Document) AddHubPackage(name, version string) (Result, error) {
	return d.addPackage(&HubPackage{Name: name, Version: version})
}

// AddGitPackage appends a git package pinned to a revision.
func (d *Document) AddGitPackage(git, revision, subdirectory string) (Result, error) {
	return d.addPackage(&GitPackage{Git: git, Revision: revision, Subdirectory: subdirectory})
}

// AddLocalPackage appends a local filesystem package.
func (d *Document) AddLocalPackage(local string) (Result, error) {
	return d.addPackage(&LocalPackage{Local: local})
}

func (d *Document) addPackage(pkg Package) (Result, error) {
	if err := pkg.Validate(); err != nil {
		return Result{}, err
	}
	d.Packages = append(d.Packages, pkg)
	return Result{
		Summary: fmt.Sprintf("added %s package %q", pkg.Kind(), pkg.Identity()),
		Changed: true,
	}, nil
}

// RemovePackage removes the first package whose identity matches. Unlike
// RemovePath this is strict: a missing package is an error.
func (d *Document) RemovePackage(identity string) (Result, error) {
	i := slices.IndexFunc(d.Packages, func(p Package) bool { return p.Identity() == identity })
	if i < 0 {
		return Result{}, &cfgerr.NotFoundError{Kind: "package", Name: identity}
	}

	kind := d.Packages[i].Kind()
	d.Packages = slices.Delete(d.Packages, i, i+1)
	return Result{
		Summary: fmt.Sprintf("removed %s package %q", kind, identity),
		Changed: true,
	}, nil
}

// UpdatePackageVersion changes the version of a hub package. Applying it to a
// git or local package is a WrongPackageKindError since only hub entries
// carry a version field.
func (d *Document) UpdatePackageVersion(name, version string) (Result, error) {
	i := slices.IndexFunc(d.Packages, func(p Package) bool { return p.Identity() == name })
	if i < 0 {
		return Result{}, &cfgerr.NotFoundError{Kind: "package", Name: name}
	}

	hub, ok := d.Packages[i].(*HubPackage)
	if !ok {
		return Result{}, &cfgerr.WrongPackageKindError{Name: name, Kind: d.Packages[i].Kind()}
	}
	if version == "" {
		return Result{}, cfgerr.NewValidation("version", "required")
	}
	if err := validateConstraint("version", version); err != nil {
		return Result{}, err
	}

	previous := hub.Version
	hub.Version = version
	return Result{
		Summary: fmt.Sprintf("updated package %q from %q to %q", name, previous, version),
		Changed: true,
	}, nil
}

func (d *Document) pathFieldFor(field string) (*[]string, error) {
	if !slices.Contains(PathFieldNames, field) {
		return nil, cfgerr.NewValidation("path-field",
			fmt.Sprintf("%q is not a project path field", field))
	}
	return d.Project.pathField(field), nil
}
