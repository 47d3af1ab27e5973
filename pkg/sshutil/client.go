package sshutil

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// Client is an SSH connection plus the names it was dialled by.
type Client struct {
	*ssh.Client
	Host    string // alias or address as given
	Address string // resolved host:port
}

// Dial connects to host with a connect and handshake timeout. host may be
// an ssh config alias, a hostname, user@host or host:port.
func Dial(host string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), host, timeout)
}

// DialContext is Dial with a context for the TCP connect.
func DialContext(ctx context.Context, host string, timeout time.Duration) (*Client, error) {
	s := resolveSettings(host, defaultConfigPath())
	knownHosts := filepath.Join(homeDir(), ".ssh", "known_hosts")

	config, encrypted, err := clientConfig(s, knownHosts, timeout)
	if err != nil {
		return nil, err
	}

	address := s.address()
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			dialSuggestion(err))
	}

	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		_ = conn.Close()

		var mismatch *HostKeyMismatchError
		if stderrors.As(err, &mismatch) {
			return nil, errors.New(errors.ErrSSH, mismatch.Error(), mismatch.Suggestion())
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			handshakeSuggestion(err, encrypted))
	}
	_ = conn.SetDeadline(time.Time{})

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// Ping checks the connection with a keepalive global request. Servers
// usually refuse the request; only a transport error means the link is down.
func (c *Client) Ping() error {
	_, _, err := c.SendRequest("keepalive@openssh.com", true, nil)
	return err
}

func dialSuggestion(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Is sshd running on that box? Try: ssh <host>"
	case strings.Contains(msg, "no route to host"), strings.Contains(msg, "network is unreachable"):
		return "Can't route to the host. Check your network connection."
	case strings.Contains(msg, "timeout"):
		return "Connection timed out. Host might be offline or blocked by a firewall."
	case strings.Contains(msg, "no such host"):
		return "Hostname didn't resolve. Check the alias in ~/.ssh/config."
	}
	return "Make sure the host is reachable: ssh <host>"
}

func handshakeSuggestion(err error, encrypted []string) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unable to authenticate"), strings.Contains(msg, "no supported methods"):
		if len(encrypted) > 0 {
			return addKeysSuggestion(encrypted)
		}
		return "Auth failed. Check your keys are loaded: ssh-add -l"
	case strings.Contains(msg, "host key"), strings.Contains(msg, "knownhosts"):
		return "Host key unknown. Connect once by hand to accept it: ssh <host>"
	}
	return "Something went wrong during SSH setup. Try: ssh -v <host>"
}
