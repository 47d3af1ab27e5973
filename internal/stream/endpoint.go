package stream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/vdash/internal/errors"
)

const (
	// DefaultPath is the backend's monitoring stream endpoint.
	DefaultPath = "/ws/monitoring"

	// HealthPath is the backend's plain HTTP health endpoint.
	HealthPath = "/api/health"
)

// EndpointURL turns a server address into the websocket URL to dial.
// http becomes ws and https becomes wss; ws and wss are kept as given.
// A bare host:port is treated as http. An empty path uses DefaultPath.
func EndpointURL(server, path string) (string, error) {
	u, err := parseServer(server)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	}

	if path == "" {
		path = DefaultPath
	}
	u.Path = joinPath(u.Path, path)
	return u.String(), nil
}

// HealthURL returns the HTTP health check URL for a server address.
func HealthURL(server string) (string, error) {
	u, err := parseServer(server)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "ws", "http":
		u.Scheme = "http"
	case "wss", "https":
		u.Scheme = "https"
	}
	u.Path = joinPath(u.Path, HealthPath)
	return u.String(), nil
}

func parseServer(server string) (*url.URL, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return nil, errors.New(errors.ErrConfig,
			"No server address configured",
			"Set 'server' in .vdash.yaml or pass --server http://host:5111")
	}
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid server address %q", server),
			"Use a URL like http://localhost:5111")
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported scheme %q in server address", u.Scheme),
			"Use http, https, ws or wss")
	}
	if u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Server address %q has no host", server),
			"Use a URL like http://localhost:5111")
	}

	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// joinPath appends p to a base path that may carry a reverse-proxy prefix.
func joinPath(base, p string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}
