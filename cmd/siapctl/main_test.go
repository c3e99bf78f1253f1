package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"sync", "restore-defaults", "permit", "report"}, names)
}

func TestPermitFlags(t *testing.T) {
	cmd := newPermitCmd(&cli{})
	require.NoError(t, cmd.ParseFlags([]string{"--teacher", "EM", "--date", "2024-03-11", "--periods", "1,2"}))

	periods, err := cmd.Flags().GetStringSlice("periods")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, periods)

	scope, err := cmd.Flags().GetString("scope")
	require.NoError(t, err)
	assert.Equal(t, "FULL_DAY", scope)
}

func TestReportDefaults(t *testing.T) {
	cmd := newReportCmd(&cli{})
	format, _ := cmd.Flags().GetString("format")
	filter, _ := cmd.Flags().GetString("filter")
	assert.Equal(t, "csv", format)
	assert.Equal(t, "DAILY", filter)
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}
