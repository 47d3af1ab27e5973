package sshutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSSHConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestListHostsFile(t *testing.T) {
	path := writeSSHConfig(t, `
Host myserver
    HostName 192.168.1.100
    User admin
    Port 22

Host gpu-box
    HostName gpu.example.com
    User ubuntu

Host *
    ServerAliveInterval 60

Host work-*
    User workuser
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	assert.Equal(t, "gpu-box", hosts[0].Alias)
	assert.Equal(t, "gpu.example.com", hosts[0].Hostname)
	assert.Equal(t, "ubuntu", hosts[0].User)
	assert.Empty(t, hosts[0].Port)

	assert.Equal(t, "myserver", hosts[1].Alias)
	assert.Equal(t, "192.168.1.100", hosts[1].Hostname)
	assert.Equal(t, "22", hosts[1].Port)
}

func TestListHostsFile_Missing(t *testing.T) {
	hosts, err := ListHostsFile(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Nil(t, hosts)
}

func TestListHostsFile_StopsAtMatch(t *testing.T) {
	path := writeSSHConfig(t, `
Host before
    HostName before.example.com

Match host *.internal
    User internal

Host after
    HostName after.example.com
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "before", hosts[0].Alias)
}

func TestListHostsFile_MultiplePatternsAndDuplicates(t *testing.T) {
	path := writeSSHConfig(t, `
Host a b
    User shared

Host a
    User again
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, "a", hosts[0].Alias)
	assert.Equal(t, "shared", hosts[0].User, "first matching block wins")
	assert.Equal(t, "b", hosts[1].Alias)
}

func TestHostEntry_Description(t *testing.T) {
	tests := []struct {
		name  string
		entry HostEntry
		want  string
	}{
		{"full", HostEntry{Alias: "s", Hostname: "10.0.0.1", User: "admin", Port: "2222"}, "10.0.0.1, user: admin, port: 2222"},
		{"default port hidden", HostEntry{Alias: "s", Hostname: "10.0.0.1", Port: "22"}, "10.0.0.1"},
		{"hostname equals alias", HostEntry{Alias: "s", Hostname: "s", User: "admin"}, "user: admin"},
		{"alias only", HostEntry{Alias: "s"}, "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Description())
		})
	}
}
