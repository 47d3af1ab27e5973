package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/errors"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name   string
		server string
		path   string
		want   string
	}{
		{"http default path", "http://localhost:5111", "", "ws://localhost:5111/ws/monitoring"},
		{"https", "https://gpu-box.example.com", "", "wss://gpu-box.example.com/ws/monitoring"},
		{"bare host", "localhost:5111", "", "ws://localhost:5111/ws/monitoring"},
		{"ws kept", "ws://10.0.0.5:5111", "", "ws://10.0.0.5:5111/ws/monitoring"},
		{"wss kept", "wss://box", "", "wss://box/ws/monitoring"},
		{"custom path", "http://localhost:5111", "/stream", "ws://localhost:5111/stream"},
		{"path without slash", "http://localhost:5111", "stream", "ws://localhost:5111/stream"},
		{"proxy prefix", "https://example.com/vllm/", "", "wss://example.com/vllm/ws/monitoring"},
		{"query dropped", "http://localhost:5111/?x=1", "", "ws://localhost:5111/ws/monitoring"},
		{"whitespace trimmed", "  http://localhost:5111 ", "", "ws://localhost:5111/ws/monitoring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndpointURL(tt.server, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointURL_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		server string
	}{
		{"empty", ""},
		{"unsupported scheme", "ftp://localhost:5111"},
		{"no host", "http://"},
		{"unparseable", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EndpointURL(tt.server, "")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:5111", "http://localhost:5111/api/health"},
		{"localhost:5111", "http://localhost:5111/api/health"},
		{"wss://box", "https://box/api/health"},
		{"ws://box:5111", "http://box:5111/api/health"},
		{"https://example.com/vllm", "https://example.com/vllm/api/health"},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			got, err := HealthURL(tt.server)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
