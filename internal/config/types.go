package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .vdash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Server is the backend base URL, e.g. http://localhost:5111.
	Server string `yaml:"server" mapstructure:"server"`

	// Path is the websocket endpoint on the server.
	Path string `yaml:"path" mapstructure:"path"`

	// RetryInterval is the fixed delay between reconnection attempts.
	RetryInterval time.Duration `yaml:"retry_interval" mapstructure:"retry_interval"`

	// HandshakeTimeout bounds one websocket handshake.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" mapstructure:"handshake_timeout"`

	// PingInterval is how often the client pings the server. A server that
	// misses two intervals is treated as gone. 0 disables keepalive.
	PingInterval time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`

	// SSH optionally names a host (alias, user@host or host:port) to tunnel
	// the connection through when the backend only listens on loopback.
	SSH string `yaml:"ssh,omitempty" mapstructure:"ssh"`

	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Format for tail output: "text" or "json".
	Format string `yaml:"format" mapstructure:"format"`
}

// ThresholdsConfig sets the percentages at which dashboard gauges turn
// yellow (warning) and red (critical).
type ThresholdsConfig struct {
	CPU ThresholdValues `yaml:"cpu" mapstructure:"cpu"`
	RAM ThresholdValues `yaml:"ram" mapstructure:"ram"`
	GPU ThresholdValues `yaml:"gpu" mapstructure:"gpu"`
}

// ThresholdValues holds the warning and critical percentages for a metric.
type ThresholdValues struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// Output colour modes and tail formats.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	FormatText = "text"
	FormatJSON = "json"
)

// Defaults.
const (
	DefaultServer           = "http://localhost:5111"
	DefaultPath             = "/ws/monitoring"
	DefaultRetryInterval    = 3 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPingInterval     = 20 * time.Second
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:          CurrentConfigVersion,
		Server:           DefaultServer,
		Path:             DefaultPath,
		RetryInterval:    DefaultRetryInterval,
		HandshakeTimeout: DefaultHandshakeTimeout,
		PingInterval:     DefaultPingInterval,
		Output: OutputConfig{
			Color:  ColorAuto,
			Format: FormatText,
		},
		Thresholds: ThresholdsConfig{
			CPU: ThresholdValues{Warning: 70, Critical: 90},
			RAM: ThresholdValues{Warning: 70, Critical: 90},
			GPU: ThresholdValues{Warning: 70, Critical: 90},
		},
	}
}
