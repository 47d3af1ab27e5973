package doctor

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
)

// ConfigFileCheck verifies that a config file can be found.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    describe(err),
			Suggestion: "Check the --config path or run 'vdash init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'vdash init' to create a .vdash.yaml config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// ConfigSchemaCheck verifies that the effective config is valid.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, path, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    describe(err),
			Suggestion: "Check the YAML syntax and duration values in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		suggestion := "Fix the configuration errors in your .vdash.yaml"
		var vdErr *errors.Error
		if stderrors.As(err, &vdErr) && vdErr.Suggestion != "" {
			suggestion = vdErr.Suggestion
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    describe(err),
			Suggestion: suggestion,
		}
	}

	source := "defaults"
	if path != "" {
		source = path
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid (%s), server %s", source, cfg.Server),
	}
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}

// describe flattens a structured error into one line for a check message.
func describe(err error) string {
	var vdErr *errors.Error
	if !stderrors.As(err, &vdErr) {
		return err.Error()
	}
	if vdErr.Cause == nil {
		return vdErr.Message
	}
	cause := describe(vdErr.Cause)
	if cause == vdErr.Message {
		return cause
	}
	return fmt.Sprintf("%s: %s", vdErr.Message, cause)
}
