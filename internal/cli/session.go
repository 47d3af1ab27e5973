package cli

import (
	"net/http"
	"time"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/stream"
	"github.com/rileyhilliard/vdash/internal/ui"
	"github.com/rileyhilliard/vdash/pkg/sshutil"
)

// sshTimeout bounds the SSH handshake when the stream is tunnelled.
const sshTimeout = 10 * time.Second

// loadConfig resolves the config the same way for every command: file or
// defaults, then VDASH_* env, then --server.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	if !noColor {
		if err := ui.SetColorMode(cfg.Output.Color); err != nil {
			return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid output.color", "Use auto, always or never")
		}
	}
	return cfg, path, nil
}

// stack is everything a command needs to follow the stream.
type stack struct {
	cfg     *config.Config
	url     string
	tunnel  *sshutil.Tunnel
	dialer  *stream.Dialer
	latest  *feed.Latest
	session *feed.Session
}

// openSession builds the dialer and an inactive session from cfg. The
// caller activates it and must call close when done.
func openSession(cfg *config.Config, log logger.Logger) (*stack, error) {
	url, err := stream.EndpointURL(cfg.Server, cfg.Path)
	if err != nil {
		return nil, err
	}

	rt := &stack{cfg: cfg, url: url, latest: feed.NewLatest()}

	opts := stream.Options{
		HandshakeTimeout: cfg.HandshakeTimeout,
		PingInterval:     cfg.PingInterval,
		Logger:           log,
	}
	if cfg.PingInterval == 0 {
		// 0 in the config file means off; the dialer reads 0 as default.
		opts.PingInterval = -1
	}
	if cfg.SSH != "" {
		rt.tunnel = sshutil.NewTunnel(cfg.SSH, sshTimeout, log)
		opts.NetDialContext = rt.tunnel.DialContext
	}
	rt.dialer = stream.NewDialer(opts)

	rt.session = feed.NewSession(feed.Options{
		URL:           url,
		Dialer:        rt.dialer,
		RetryInterval: cfg.RetryInterval,
		Logger:        log,
		Observer:      rt.latest.Observe,
	})
	return rt, nil
}

// httpClient returns a client that goes through the tunnel when there is one.
func (rt *stack) httpClient() *http.Client {
	client := &http.Client{Timeout: rt.cfg.HandshakeTimeout}
	if rt.tunnel != nil {
		client.Transport = &http.Transport{DialContext: rt.tunnel.DialContext}
	}
	return client
}

// close deactivates the session and tears down the tunnel.
func (rt *stack) close() {
	rt.session.Deactivate()
	if rt.tunnel != nil {
		_ = rt.tunnel.Close()
	}
	sshutil.CloseAgent()
}
