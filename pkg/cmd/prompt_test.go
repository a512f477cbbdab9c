package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("analytics\n\n"), &out)

	answer, err := p.Ask("Profile name", "")
	require.NoError(t, err)
	require.Equal(t, "analytics", answer)

	// Empty answer falls back to the default.
	answer, err = p.Ask("Target", "dev")
	require.NoError(t, err)
	require.Equal(t, "dev", answer)
	require.Contains(t, out.String(), "[dev]")
}

func TestPrompter_AskInt(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("lots\n8\n"), &out)

	n, err := p.AskInt("Threads", 4)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Contains(t, out.String(), "please enter a number")
}

func TestPrompter_Confirm(t *testing.T) {
	p := NewPrompter(strings.NewReader("y\nno\n\n"), &bytes.Buffer{})

	ok, err := p.Confirm("Delete", false)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Confirm("Delete", true)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Confirm("Delete", true)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPrompter_Select(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("2\nduckdb\nnope\n1\n"), &out)

	choice, err := p.Select("Adapter", []string{"duckdb", "databricks"})
	require.NoError(t, err)
	require.Equal(t, "databricks", choice)

	// Exact name works too.
	choice, err = p.Select("Adapter", []string{"duckdb", "databricks"})
	require.NoError(t, err)
	require.Equal(t, "duckdb", choice)

	// Bad input re-asks.
	choice, err = p.Select("Adapter", []string{"duckdb", "databricks"})
	require.NoError(t, err)
	require.Equal(t, "duckdb", choice)
	require.Contains(t, out.String(), "please pick one")
}
