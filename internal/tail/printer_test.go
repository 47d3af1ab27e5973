package tail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/ui"
)

func TestMain(m *testing.M) {
	ui.DisableColors()
	os.Exit(m.Run())
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC)
}

func newTestPrinter(t *testing.T, format string) (*Printer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, format)
	require.NoError(t, err)
	p.now = fixedNow
	return p, &buf
}

func sample() feed.Snapshot {
	return feed.Snapshot{
		"system": map[string]any{
			"cpu":    map[string]any{"usage_percent": 12.5},
			"memory": map[string]any{"percent": 40.0},
			"gpu":    map[string]any{"available": true, "utilization_percent": 88.0, "memory_percent": 50.0},
		},
		"vllm":      map[string]any{"server": map[string]any{"status": "connected"}},
		"models":    []any{map[string]any{"name": "m", "status": "running"}},
		"downloads": map[string]any{"d": map[string]any{"status": "downloading"}},
	}
}

func TestNewPrinter_Format(t *testing.T) {
	p, err := NewPrinter(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, FormatText, p.format)

	_, err = NewPrinter(&bytes.Buffer{}, "xml")
	assert.Error(t, err)
}

func TestPrinter_Text(t *testing.T) {
	p, buf := newTestPrinter(t, FormatText)
	snap := sample()

	require.NoError(t, p.Print(feed.Update{Status: feed.StatusConnecting}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Status: feed.StatusConnected}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusConnected}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusConnected}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusDisconnected}, feed.Stats{LastError: "unexpected EOF"}))

	want := []string{
		"12:00:05 ◐ connecting",
		"12:00:05 ● connected",
		"12:00:05 cpu 12.5% | mem 40.0% | gpu 88.0% vram 50.0% | vllm connected | models 1/1 running | downloads 1 active",
		"12:00:05 ○ disconnected: unexpected EOF",
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", buf.String())
}

func TestPrinter_JSON(t *testing.T) {
	p, buf := newTestPrinter(t, FormatJSON)
	snap := feed.Snapshot{"timestamp": "t1"}

	require.NoError(t, p.Print(feed.Update{Status: feed.StatusConnecting}, feed.Stats{Attempts: 1}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusConnected}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusConnected}, feed.Stats{}))
	require.NoError(t, p.Print(feed.Update{Snapshot: snap, Status: feed.StatusDisconnected}, feed.Stats{Attempts: 1, LastError: "boom"}))

	var lines []string
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 3, "duplicate update is skipped")

	assert.JSONEq(t, `{"time":"2026-01-01T12:00:05Z","status":"connecting","attempts":1}`, lines[0])
	assert.JSONEq(t, `{"time":"2026-01-01T12:00:05Z","status":"connected","snapshot":{"timestamp":"t1"}}`, lines[1])
	assert.JSONEq(t, `{"time":"2026-01-01T12:00:05Z","status":"disconnected","attempts":1,"last_error":"boom"}`, lines[2])

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "t1", rec.Snapshot["timestamp"])
}

func TestPrinter_NewSnapshotSameStatus(t *testing.T) {
	p, buf := newTestPrinter(t, FormatText)

	require.NoError(t, p.Print(feed.Update{Snapshot: sample(), Status: feed.StatusConnected}, feed.Stats{}))
	buf.Reset()
	require.NoError(t, p.Print(feed.Update{Snapshot: sample(), Status: feed.StatusConnected}, feed.Stats{}))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "only the snapshot line")
	assert.Contains(t, buf.String(), "cpu 12.5%")
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		snap feed.Snapshot
		want string
	}{
		{"full", sample(), "cpu 12.5% | mem 40.0% | gpu 88.0% vram 50.0% | vllm connected | models 1/1 running | downloads 1 active"},
		{"empty", feed.Snapshot{}, "cpu 0.0% | mem 0.0% | vllm unknown | models 0/0 running"},
		{"vllm detail is dropped", feed.Snapshot{"vllm": map[string]any{"server": map[string]any{"status": "disconnected: refused"}}},
			"cpu 0.0% | mem 0.0% | vllm disconnected | models 0/0 running"},
		{"unreadable", feed.Snapshot{"models": "x", "a": 1}, "unreadable snapshot (2 keys)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.snap))
		})
	}
}
