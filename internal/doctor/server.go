package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/telemetry"
)

// DefaultFrameWait is how long StreamCheck waits for the first frame.
const DefaultFrameWait = 5 * time.Second

// HealthCheck probes the backend's HTTP health endpoint.
type HealthCheck struct {
	URL    string
	Client *http.Client
}

func (c *HealthCheck) Name() string     { return "server_health" }
func (c *HealthCheck) Category() string { return "SERVER" }

func (c *HealthCheck) Run(ctx context.Context) CheckResult {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusFail, Message: err.Error()}
	}

	resp, err := client.Do(req)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %v", c.URL, err),
			Suggestion: "Check the backend is running and 'server' in .vdash.yaml points at it",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s returned HTTP %d", c.URL, resp.StatusCode),
			Suggestion: "Check 'server' points at the monitoring backend, not another service",
		}
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s answered but the body is not JSON", c.URL),
		}
	}
	if body.Status != "healthy" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("Backend reports status %q", body.Status),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Backend healthy",
	}
}

// StreamCheck opens the monitoring stream once and waits for the first frame.
type StreamCheck struct {
	URL    string
	Dialer feed.Dialer
	Wait   time.Duration // 0 uses DefaultFrameWait
}

func (c *StreamCheck) Name() string     { return "stream" }
func (c *StreamCheck) Category() string { return "SERVER" }

func (c *StreamCheck) Run(ctx context.Context) CheckResult {
	wait := c.Wait
	if wait <= 0 {
		wait = DefaultFrameWait
	}

	conn, err := c.Dialer.Dial(ctx, c.URL)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot open %s: %s", c.URL, describe(err)),
			Suggestion: "Check 'path' in .vdash.yaml matches the backend's websocket route",
		}
	}
	defer conn.Close()

	type read struct {
		data []byte
		err  error
	}
	done := make(chan read, 1)
	go func() {
		data, err := conn.ReadMessage()
		done <- read{data, err}
	}()

	var r read
	select {
	case r = <-done:
	case <-time.After(wait):
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("Connected, but no frame within %s", wait),
		}
	case <-ctx.Done():
		return CheckResult{Name: c.Name(), Status: StatusFail, Message: ctx.Err().Error()}
	}

	if r.err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Stream closed before the first frame: %v", r.err),
		}
	}

	snap, err := feed.DecodeSnapshot(r.data)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "First frame is not a JSON object",
			Suggestion: "Check 'path' points at the monitoring stream",
		}
	}

	report, err := telemetry.Decode(snap)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("Frame received but not in the expected shape: %s", describe(err)),
		}
	}

	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Receiving frames (%d model%s, %d running)",
			len(report.Models), pluralize(len(report.Models)), report.RunningModels()),
	}
}
