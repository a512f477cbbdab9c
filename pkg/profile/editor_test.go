package profile_test

import (
	"testing"

	"github.com/spycner/brix/pkg/cfgerr"
	. "github.com/spycner/brix/pkg/profile"
	"github.com/stretchr/testify/require"
)

func TestAddProfile(t *testing.T) {
	doc := NewDocument()

	res, err := doc.AddProfile("analytics")
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Contains(t, res.Summary, `"analytics"`)

	// A duplicate add must fail and leave the document unchanged.
	_, err = doc.AddProfile("analytics")
	require.ErrorIs(t, err, cfgerr.ErrDuplicateName)
	require.Equal(t, []string{"analytics"}, doc.Names())

	_, err = doc.AddProfile("")
	require.ErrorIs(t, err, cfgerr.ErrValidation)

	// dbt reserves the top-level config key for global flags.
	_, err = doc.AddProfile("config")
	require.ErrorIs(t, err, cfgerr.ErrValidation)
}

func TestDeleteProfile(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)

	_, err = doc.DeleteProfile("missing", false)
	require.ErrorIs(t, err, cfgerr.ErrNotFound)

	// An empty profile deletes without force.
	res, err := doc.DeleteProfile("analytics", false)
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, 0, doc.Len())
}

func TestDeleteProfile_WithOutputsRequiresForce(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)
	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.NoError(t, err)

	_, err = doc.DeleteProfile("analytics", false)
	require.ErrorIs(t, err, cfgerr.ErrConfirmationRequired)

	// The refused delete must not have touched the document.
	_, ok := doc.Get("analytics")
	require.True(t, ok)

	_, err = doc.DeleteProfile("analytics", true)
	require.NoError(t, err)
	require.Equal(t, 0, doc.Len())
}

func TestAddOutput(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)

	_, err = doc.AddOutput("missing", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.ErrorIs(t, err, cfgerr.ErrNotFound)

	res, err := doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.NoError(t, err)
	require.Contains(t, res.Summary, "duckdb")

	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "./other.db", Threads: 4})
	require.ErrorIs(t, err, cfgerr.ErrDuplicateName)
}

func TestAddOutput_InvalidOutputLeavesProfileUnchanged(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)

	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Threads: 4})
	require.ErrorIs(t, err, cfgerr.ErrValidation)

	var verr *cfgerr.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "analytics.outputs.dev.path", verr.Field)

	p, _ := doc.Get("analytics")
	require.Empty(t, p.OutputNames())
}

func TestEditOutput(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)
	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.NoError(t, err)
	_, err = doc.AddOutput("analytics", "prod", &DuckDBOutput{Path: "./prod.duckdb", Threads: 4})
	require.NoError(t, err)

	_, err = doc.EditOutput("analytics", "staging", &DuckDBOutput{Path: "memory", Threads: 4})
	require.ErrorIs(t, err, cfgerr.ErrNotFound)

	res, err := doc.EditOutput("analytics", "dev", &DuckDBOutput{Path: "./dev.duckdb", Threads: 8})
	require.NoError(t, err)
	require.True(t, res.Changed)

	p, _ := doc.Get("analytics")
	require.Equal(t, []string{"dev", "prod"}, p.OutputNames())

	out, _ := p.Output("dev")
	require.Equal(t, 8, out.(*DuckDBOutput).Threads)
}

func TestDeleteOutput(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)
	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.NoError(t, err)

	_, err = doc.DeleteOutput("analytics", "missing")
	require.ErrorIs(t, err, cfgerr.ErrNotFound)

	_, err = doc.DeleteOutput("analytics", "dev")
	require.NoError(t, err)

	p, _ := doc.Get("analytics")
	require.Empty(t, p.OutputNames())
}

func TestSetTarget(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddProfile("analytics")
	require.NoError(t, err)

	_, err = doc.SetTarget("missing", "dev")
	require.ErrorIs(t, err, cfgerr.ErrNotFound)

	_, err = doc.SetTarget("analytics", "")
	require.ErrorIs(t, err, cfgerr.ErrValidation)

	// Targets may name an output that doesn't exist yet; the gap is called
	// out in the summary and enforced when the document is validated.
	res, err := doc.SetTarget("analytics", "dev")
	require.NoError(t, err)
	require.Contains(t, res.Summary, "not yet defined")
	require.ErrorIs(t, doc.Validate(), cfgerr.ErrValidation)

	_, err = doc.AddOutput("analytics", "dev", &DuckDBOutput{Path: "memory", Threads: 4})
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	res, err = doc.SetTarget("analytics", "dev")
	require.NoError(t, err)
	require.NotContains(t, res.Summary, "not yet defined")
}
