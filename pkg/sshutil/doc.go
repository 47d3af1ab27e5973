// Package sshutil reaches a monitoring backend that only listens on a
// remote loopback interface.
//
// Hosts are resolved the way ssh(1) would: aliases, HostName, Port, User
// and IdentityFile come from ~/.ssh/config. Authentication tries the SSH
// agent first, then the configured identity file and the default keys.
// Host keys are verified against ~/.ssh/known_hosts.
//
// A Tunnel wraps one SSH connection and exposes DialContext, which the
// websocket dialer and the doctor's HTTP client use in place of a TCP dial.
package sshutil
