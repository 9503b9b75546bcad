package main

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal"
)

func TestNewVtmrollCommand(t *testing.T) {
	cmd := NewVtmrollCommand()

	require.NotNil(t, cmd)

	short := fmt.Sprintf("%s vtmroll - Vampire: the Masquerade 5e dice roller v%s", internal.Logo, internal.GetVersion())
	assert.Equal(t, "vtmroll", cmd.Use)
	assert.Equal(t, short, cmd.Short)
	assert.True(t, cmd.SilenceUsage)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"gateway", "onboard", "roll", "version"} {
		assert.True(t, slices.Contains(names, want), "missing subcommand %q", want)
	}
}
