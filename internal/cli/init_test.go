package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
)

func TestInit_NonInteractive(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	err := Init(InitOptions{
		Server:         "http://gpu-box:5111",
		SSH:            "gpu-box",
		NonInteractive: true,
		Out:            &out,
	})
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:5111", cfg.Server)
	assert.Equal(t, "gpu-box", cfg.SSH)
	assert.Equal(t, config.DefaultRetryInterval, cfg.RetryInterval)

	assert.Contains(t, out.String(), "Wrote ")
	assert.Contains(t, out.String(), "stream: ws://gpu-box:5111/ws/monitoring")
	assert.Contains(t, out.String(), "via ssh: gpu-box")
}

func TestInit_DefaultsWithoutFlags(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, Init(InitOptions{NonInteractive: true, Out: &bytes.Buffer{}}))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServer, cfg.Server)
	assert.Empty(t, cfg.SSH)
}

func TestInit_ExistingConfig(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, config.ConfigFileName, "server: http://old:5111\n")

	err := Init(InitOptions{Server: "http://new:5111", NonInteractive: true, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "old")

	err = Init(InitOptions{Server: "http://new:5111", NonInteractive: true, Overwrite: true, Out: &bytes.Buffer{}})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://new:5111", cfg.Server)
}

func TestInit_Global(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")

	require.NoError(t, Init(InitOptions{Global: true, NonInteractive: true, Out: &bytes.Buffer{}}))

	_, err := os.Stat(config.GlobalPath(home))
	assert.NoError(t, err)
}

func TestInit_InvalidServer(t *testing.T) {
	dir := isolate(t)

	err := Init(InitOptions{Server: "ftp://nope", NonInteractive: true, Out: &bytes.Buffer{}})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}
