package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/profile"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestProfileInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	out, err := runApp(t, profileCmd(), "profile", "init", "-p", path)
	require.NoError(t, err)
	require.Contains(t, out, path)
	require.FileExists(t, path)

	// Refuses to overwrite without --force.
	_, err = runApp(t, profileCmd(), "profile", "init", "-p", path)
	require.ErrorIs(t, err, cfgerr.ErrDuplicateName)

	_, err = runApp(t, profileCmd(), "profile", "init", "-p", path, "--force")
	require.NoError(t, err)
}

func TestProfileShowCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	out, err := runApp(t, profileCmd(), "profile", "show", "-p", path)
	require.NoError(t, err)
	require.Contains(t, out, "missing")

	_, err = runApp(t, profileCmd(), "profile", "init", "-p", path)
	require.NoError(t, err)

	out, err = runApp(t, profileCmd(), "profile", "show", "-p", path)
	require.NoError(t, err)
	require.Contains(t, out, "Profiles: 1")
	require.Contains(t, out, "type: duckdb")
}

func TestProfileEditCommand_BuildsProfileIncrementally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	_, err := runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "add-profile", "--profile", "analytics")
	require.NoError(t, err)

	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "add-output", "--profile", "analytics", "--output", "dev",
		"--type", "duckdb", "--path", "./dev.duckdb")
	require.NoError(t, err)

	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "set-target", "--profile", "analytics", "--target", "dev")
	require.NoError(t, err)

	doc, err := profile.LoadFile(path)
	require.NoError(t, err)

	p, ok := doc.Get("analytics")
	require.True(t, ok)
	require.Equal(t, "dev", p.Target())

	out, ok := p.Output("dev")
	require.True(t, ok)
	require.Equal(t, 4, out.(*profile.DuckDBOutput).Threads)
}

func TestProfileEditCommand_AddDatabricksOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	_, err := runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "add-profile", "--profile", "analytics")
	require.NoError(t, err)

	// Token auth without a token is rejected and nothing is persisted.
	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "add-output", "--profile", "analytics", "--output", "prod",
		"--type", "databricks", "--host", "example.cloud.databricks.com",
		"--http-path", "/sql/1.0/warehouses/abc123", "--catalog", "main",
		"--schema", "analytics", "--auth-type", "token")
	require.ErrorIs(t, err, cfgerr.ErrValidation)

	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "add-output", "--profile", "analytics", "--output", "prod",
		"--type", "databricks", "--host", "example.cloud.databricks.com",
		"--http-path", "/sql/1.0/warehouses/abc123", "--catalog", "main",
		"--schema", "analytics", "--auth-type", "token", "--token", "dapi123")
	require.NoError(t, err)

	doc, err := profile.LoadFile(path)
	require.NoError(t, err)
	p, _ := doc.Get("analytics")
	out, ok := p.Output("prod")
	require.True(t, ok)
	require.Equal(t, "dapi123", out.(*profile.DatabricksOutput).Token)
}

func TestProfileEditCommand_DeleteProfileNeedsForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	_, err := runApp(t, profileCmd(), "profile", "init", "-p", path)
	require.NoError(t, err)

	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "delete-profile", "--profile", "brix")
	require.ErrorIs(t, err, cfgerr.ErrConfirmationRequired)

	_, err = runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "delete-profile", "--profile", "brix", "--force")
	require.NoError(t, err)

	doc, err := profile.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 0, doc.Len())
}

func TestProfileEditCommand_UnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	_, err := runApp(t, profileCmd(), "profile", "edit", "-p", path,
		"--action", "rename-profile", "--profile", "analytics")
	require.ErrorIs(t, err, cfgerr.ErrValidation)
}

func TestProfileEditCommand_Wizard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")

	// Scripted session: pick add-profile, name it analytics.
	var buf bytes.Buffer
	app := &cli.Command{
		Name:     "test",
		Reader:   strings.NewReader("1\nanalytics\n"),
		Writer:   &buf,
		Commands: []*cli.Command{profileCmd()},
	}
	err := app.Run(context.Background(), []string{"test", "profile", "edit", "-p", path})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `added profile "analytics"`)

	doc, err := profile.LoadFile(path)
	require.NoError(t, err)
	_, ok := doc.Get("analytics")
	require.True(t, ok)
}
