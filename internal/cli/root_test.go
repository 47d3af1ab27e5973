package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"watch", "tail", "doctor", "init", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "server", "no-color"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, "s", flags.Lookup("server").Shorthand)
}

func TestRootCmd_Silenced(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestLoadConfig_ServerFlagOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".vdash.yaml", "server: http://from-file:5111\n")

	cfg, path, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:5111", cfg.Server)
	assert.NotEmpty(t, path)

	serverFlag = "http://from-flag:9000"
	cfg, _, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:9000", cfg.Server)
}

func TestLoadConfig_InvalidServer(t *testing.T) {
	isolate(t)
	serverFlag = "ftp://nope"

	_, _, err := loadConfig()
	assert.Error(t, err)
}
