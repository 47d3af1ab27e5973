package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bare host server", func(c *Config) { c.Server = "localhost:5111" }, ""},
		{"wss server", func(c *Config) { c.Server = "wss://box" }, ""},
		{"keepalive disabled", func(c *Config) { c.PingInterval = 0 }, ""},
		{"ssh alias", func(c *Config) { c.SSH = "user@gpu-box:2222" }, ""},
		{"zero thresholds", func(c *Config) { c.Thresholds.CPU = ThresholdValues{} }, ""},

		{"future version", func(c *Config) { c.Version = 99 }, "from the future"},
		{"empty server", func(c *Config) { c.Server = "" }, "server is empty"},
		{"bad scheme", func(c *Config) { c.Server = "ftp://box" }, "scheme 'ftp'"},
		{"no host", func(c *Config) { c.Server = "http://" }, "has no host"},
		{"relative path", func(c *Config) { c.Path = "ws/monitoring" }, "start with '/'"},
		{"retry too short", func(c *Config) { c.RetryInterval = 10 * time.Millisecond }, "retry_interval"},
		{"zero handshake", func(c *Config) { c.HandshakeTimeout = 0 }, "handshake_timeout"},
		{"negative ping", func(c *Config) { c.PingInterval = -time.Second }, "ping_interval"},
		{"ssh with spaces", func(c *Config) { c.SSH = "gpu box" }, "whitespace"},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"threshold range", func(c *Config) { c.Thresholds.RAM.Critical = 120 }, "thresholds.ram.critical"},
		{"threshold order", func(c *Config) { c.Thresholds.GPU = ThresholdValues{Warning: 95, Critical: 90} }, "thresholds.gpu.warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
