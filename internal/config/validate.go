package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// MinRetryInterval keeps a misconfigured client from hammering the server.
const MinRetryInterval = 100 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest vdash release.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Set 'server' to the backend URL, e.g. http://localhost:5111")
	}

	if !strings.HasPrefix(cfg.Path, "/") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("path '%s' needs to start with '/'", cfg.Path),
			"The backend serves the stream at /ws/monitoring.")
	}

	if err := validateTiming(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Use durations like '3s', '500ms' or '1m'.")
	}

	if strings.ContainsAny(cfg.SSH, " \t") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("ssh '%s' contains whitespace", cfg.SSH),
			"Use a single host alias, user@host or host:port.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'output' section in your .vdash.yaml.")
	}

	for _, th := range []struct {
		name string
		vals ThresholdValues
	}{
		{"cpu", cfg.Thresholds.CPU},
		{"ram", cfg.Thresholds.RAM},
		{"gpu", cfg.Thresholds.GPU},
	} {
		if err := validateThresholds(th.name, th.vals); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Check the 'thresholds' section in your .vdash.yaml.")
		}
	}

	return nil
}

func validateServer(server string) error {
	if server == "" {
		return fmt.Errorf("server is empty")
	}
	raw := server
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("server '%s' isn't a valid URL", server)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("server '%s' uses scheme '%s' - use http, https, ws or wss", server, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server '%s' has no host", server)
	}
	return nil
}

func validateTiming(cfg *Config) error {
	if cfg.RetryInterval < MinRetryInterval {
		return fmt.Errorf("retry_interval %s is too short - use at least %s", cfg.RetryInterval, MinRetryInterval)
	}
	if cfg.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake_timeout needs to be positive (got %s)", cfg.HandshakeTimeout)
	}
	if cfg.PingInterval < 0 {
		return fmt.Errorf("ping_interval can't be negative (got %s) - use 0 to disable keepalive", cfg.PingInterval)
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	switch out.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color '%s' isn't valid - use auto, always, or never", out.Color)
	}
	switch out.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format '%s' isn't valid - use text or json", out.Format)
	}
	return nil
}

// validateThresholds checks a threshold configuration for a single metric type.
func validateThresholds(name string, thresh ThresholdValues) error {
	if thresh.Warning < 0 || thresh.Warning > 100 {
		return fmt.Errorf("thresholds.%s.warning needs to be 0-100 (got %d)", name, thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > 100 {
		return fmt.Errorf("thresholds.%s.critical needs to be 0-100 (got %d)", name, thresh.Critical)
	}
	if thresh.Warning > 0 && thresh.Critical > 0 && thresh.Warning >= thresh.Critical {
		return fmt.Errorf("thresholds.%s.warning (%d%%) is higher than critical (%d%%) - should be the other way around", name, thresh.Warning, thresh.Critical)
	}
	return nil
}
