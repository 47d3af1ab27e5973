package sshutil

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kevinburke/ssh_config"

	"github.com/rileyhilliard/vdash/internal/logger"
)

// settings are the connection parameters for one host.
type settings struct {
	alias        string
	hostname     string
	port         string
	user         string
	identityFile string
}

func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

var matchWarningOnce sync.Once

// resolveSettings parses user@host:port and fills the gaps from the ssh
// config at configPath. Explicit user and port win over the config file.
func resolveSettings(host, configPath string) *settings {
	s := &settings{port: "22", user: currentUser()}

	explicitUser, explicitPort := false, false
	if user, rest, ok := strings.Cut(host, "@"); ok {
		s.user = user
		host = rest
		explicitUser = true
	}
	if h, port, ok := splitPort(host); ok {
		host = h
		s.port = port
		explicitPort = true
	}
	s.alias = host
	s.hostname = host

	content, matchLine, err := readSSHConfig(configPath)
	if err != nil {
		return s
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		logger.Default().Debug("ssh config %s: %v", configPath, err)
		return s
	}

	found := false
	if v, _ := cfg.Get(host, "HostName"); v != "" {
		s.hostname = v
		found = true
	}
	if v, _ := cfg.Get(host, "Port"); v != "" && !explicitPort {
		s.port = v
		found = true
	}
	if v, _ := cfg.Get(host, "User"); v != "" && !explicitUser {
		s.user = v
		found = true
	}
	if v, _ := cfg.Get(host, "IdentityFile"); v != "" {
		s.identityFile = expandPath(v)
		found = true
	}

	if matchLine > 0 && !found {
		matchWarningOnce.Do(func() {
			logger.Default().Warn("host %q not found in %s; entries after the Match block at line %d are not read",
				host, configPath, matchLine)
		})
	}
	return s
}

// splitPort splits a trailing numeric :port off host.
func splitPort(host string) (string, string, bool) {
	i := strings.LastIndex(host, ":")
	if i < 0 || i == len(host)-1 {
		return host, "", false
	}
	port := host[i+1:]
	for _, c := range port {
		if c < '0' || c > '9' {
			return host, "", false
		}
	}
	return host[:i], port, true
}

// readSSHConfig returns the config up to its first Match directive, which
// ssh_config cannot parse, and the 1-based line of that directive.
func readSSHConfig(path string) ([]byte, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}

func defaultConfigPath() string {
	return filepath.Join(homeDir(), ".ssh", "config")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
