package doctor

import (
	"context"
	"fmt"
	"os"
)

// Pinger is the part of an SSH tunnel the check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TunnelCheck verifies the configured SSH host is reachable.
type TunnelCheck struct {
	Host   string
	Tunnel Pinger
}

func (c *TunnelCheck) Name() string     { return "ssh_tunnel" }
func (c *TunnelCheck) Category() string { return "SSH" }

func (c *TunnelCheck) Run(ctx context.Context) CheckResult {
	if err := c.Tunnel.Ping(ctx); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %s", c.Host, describe(err)),
			Suggestion: fmt.Sprintf("Test manually with: ssh %s", c.Host),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Connected to %s", c.Host),
	}
}

// SSHAgentCheck reports whether an SSH agent socket is available. Only
// relevant when a tunnel is configured.
type SSHAgentCheck struct{}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return "SSH" }

func (c *SSHAgentCheck) Run(context.Context) CheckResult {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent not running, falling back to key files",
			Suggestion: "Fix: eval $(ssh-agent) && ssh-add",
		}
	}

	if _, err := os.Stat(socket); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH_AUTH_SOCK points to a missing socket",
			Suggestion: "Restart the agent: eval $(ssh-agent) && ssh-add",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH agent running",
	}
}
