package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/project"
	"github.com/stretchr/testify/require"
)

func TestProjectInitCommand(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	out, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base)
	require.NoError(t, err)
	require.Contains(t, out, `"jaffle_shop"`)

	dir := filepath.Join(base, "jaffle_shop")
	require.FileExists(t, filepath.Join(dir, consts.ProjectFileName))
	require.FileExists(t, filepath.Join(dir, consts.PackagesFileName))
	require.DirExists(t, filepath.Join(dir, "models"))

	// The new project becomes the cached default.
	require.Equal(t, dir, store.Load().LastProjectPath)

	_, err = runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base)
	require.ErrorIs(t, err, cfgerr.ErrDuplicateName)
}

func TestProjectInitCommand_SeedsDefaultPackage(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	out, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base)
	require.NoError(t, err)
	require.Contains(t, out, "Run 'dbt deps'")

	doc, err := project.Load(filepath.Join(base, "jaffle_shop"))
	require.NoError(t, err)
	require.Len(t, doc.Packages, 1)
	require.Equal(t, consts.DefaultHubPackage, doc.Packages[0].Identity())

	// Deps were only suggested, not run.
	require.Empty(t, runner.args)
}

func TestProjectInitCommand_NoPackages(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	out, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--no-packages")
	require.NoError(t, err)
	require.NotContains(t, out, "dbt deps")

	doc, err := project.Load(filepath.Join(base, "jaffle_shop"))
	require.NoError(t, err)
	require.Empty(t, doc.Packages)
}

func TestProjectInitCommand_RunsDepsWhenRequested(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	out, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--deps")
	require.NoError(t, err)
	require.Contains(t, out, "Running dbt deps")

	require.Equal(t, filepath.Join(base, "jaffle_shop"), runner.dir)
	require.Equal(t, []string{"deps"}, runner.args)
}

func TestProjectShowCommand(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	_, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--profile", "analytics", "--no-packages")
	require.NoError(t, err)

	dir := filepath.Join(base, "jaffle_shop")
	out, err := runApp(t, projectCmd(runner, store), "project", "show", "--project-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Name: jaffle_shop")
	require.Contains(t, out, "Profile: analytics")
	require.Contains(t, out, "Packages: 0")
}

func TestProjectEditCommand_PackageLifecycle(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	_, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--no-packages")
	require.NoError(t, err)
	dir := filepath.Join(base, "jaffle_shop")

	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "add-hub-package", "--package", "dbt-labs/dbt_utils", "--package-version", "1.0.0")
	require.NoError(t, err)

	out, err := runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "update-package-version", "--package", "dbt-labs/dbt_utils", "--package-version", "1.1.1")
	require.NoError(t, err)
	require.Contains(t, out, `to "1.1.1"`)

	doc, err := project.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "1.1.1", doc.Packages[0].(*project.HubPackage).Version)

	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "remove-package", "--package", "dbt-labs/dbt_utils")
	require.NoError(t, err)

	// Removal is strict once the package is gone.
	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "remove-package", "--package", "dbt-labs/dbt_utils")
	require.ErrorIs(t, err, cfgerr.ErrNotFound)
}

func TestProjectEditCommand_DepsAfterPackageChange(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	_, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--no-packages")
	require.NoError(t, err)
	dir := filepath.Join(base, "jaffle_shop")

	out, err := runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir, "--deps",
		"--action", "add-hub-package", "--package", "dbt-labs/dbt_utils", "--package-version", "1.0.0")
	require.NoError(t, err)
	require.Contains(t, out, "Running dbt deps")
	require.Equal(t, dir, runner.dir)
	require.Equal(t, []string{"deps"}, runner.args)

	// Non-package edits never trigger deps.
	runner.args = nil
	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir, "--deps",
		"--action", "set-version", "--value", "2.0.0")
	require.NoError(t, err)
	require.Empty(t, runner.args)
}

func TestProjectEditCommand_VersionUpdateRejectsGitPackages(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	_, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--no-packages")
	require.NoError(t, err)
	dir := filepath.Join(base, "jaffle_shop")

	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "add-git-package", "--git", "https://github.com/org/repo.git", "--revision", "v1.0.0")
	require.NoError(t, err)

	_, err = runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "update-package-version", "--package", "https://github.com/org/repo.git", "--package-version", "2.0.0")
	require.ErrorIs(t, err, cfgerr.ErrWrongPackageKind)
}

func TestProjectEditCommand_RemovePathIsLenient(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)
	base := t.TempDir()

	_, err := runApp(t, projectCmd(runner, store), "project", "init",
		"-n", "jaffle_shop", "--base-dir", base, "--no-packages")
	require.NoError(t, err)
	dir := filepath.Join(base, "jaffle_shop")

	out, err := runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", dir,
		"--action", "remove-path", "--path-field", "seed-paths", "--path", "no_such_dir")
	require.NoError(t, err)
	require.Contains(t, out, "nothing removed")
}

func TestProjectEditCommand_RequiresAction(t *testing.T) {
	runner := &fakeRunner{}
	store := newStore(t)

	_, err := runApp(t, projectCmd(runner, store), "project", "edit", "--project-dir", t.TempDir())
	require.ErrorIs(t, err, cfgerr.ErrValidation)
}
