package onboard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtmroll/vtmroll/pkg/command"
	"github.com/vtmroll/vtmroll/pkg/config"
)

func TestNewOnboardCommand(t *testing.T) {
	cmd := NewOnboardCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "onboard", cmd.Use)
	assert.Equal(t, "Initialize vtmroll configuration", cmd.Short)
	assert.True(t, cmd.HasAlias("o"))
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.False(t, cmd.HasSubCommands())
}

func TestOnboard_WritesDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret-token")
	path := filepath.Join(t.TempDir(), ".vtmroll", "config.json")

	var out bytes.Buffer
	require.NoError(t, onboard(&out, path, false))
	assert.Contains(t, out.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-token")

	t.Setenv("DISCORD_TOKEN", "")
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, command.DefaultPrefix, cfg.Bot.Prefix)
	assert.Equal(t, 50, cfg.Bot.MaxDice)
}

func TestOnboard_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bot":{"prefix":"!v"}}`), 0o600))

	var out bytes.Buffer
	err := onboard(&out, path, false)
	assert.ErrorContains(t, err, "already exists")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "!v")

	require.NoError(t, onboard(&out, path, true))
	data, readErr = os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), command.DefaultPrefix)
}
