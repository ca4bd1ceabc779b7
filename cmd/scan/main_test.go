package main

import (
	"io"
	"testing"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := rootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd().Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["query"])
	assert.True(t, names["serve"])
}

func TestQuery_RejectsOutOfRangeSites(t *testing.T) {
	for _, sites := range []string{"0", "11", "-3"} {
		err := execute(t, "query", "--lat", "40", "--lon", "-105", "--sites="+sites)
		require.Error(t, err, "sites=%s", sites)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "sites=%s must fail validation before any fetch", sites)
	}
}

func TestQuery_RejectsOutOfRangeYears(t *testing.T) {
	for _, years := range []string{"0", "-1", "31"} {
		err := execute(t, "query", "--lat", "40", "--lon", "-105", "--years="+years)
		require.Error(t, err, "years=%s", years)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "years=%s must fail validation before any fetch", years)
	}
}

func TestQuery_RejectsBadCoordinate(t *testing.T) {
	err := execute(t, "query", "--lat", "91", "--lon", "-105")
	require.Error(t, err)

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestQuery_RequiresCoordinateFlags(t *testing.T) {
	assert.Error(t, execute(t, "query"))
	assert.Error(t, execute(t, "query", "--lat", "40"))
}
