package tail

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/telemetry"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Record is one NDJSON line.
type Record struct {
	Time      time.Time     `json:"time"`
	Status    feed.Status   `json:"status"`
	Attempts  int           `json:"attempts,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	Snapshot  feed.Snapshot `json:"snapshot,omitempty"`
}

// Printer writes updates to w. It remembers the last status and snapshot
// so repeated updates print only what changed.
type Printer struct {
	w      io.Writer
	format string
	now    func() time.Time
	enc    *json.Encoder

	printed    bool
	lastStatus feed.Status
	lastSnap   feed.Snapshot
}

// NewPrinter creates a printer for the given format ("text" or "json").
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	switch format {
	case "", FormatText:
		format = FormatText
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown tail format %q (use text or json)", format)
	}

	return &Printer{
		w:      w,
		format: format,
		now:    time.Now,
		enc:    json.NewEncoder(w),
	}, nil
}

// Print writes u if its status or snapshot differs from the last one seen.
func (p *Printer) Print(u feed.Update, stats feed.Stats) error {
	statusChanged := !p.printed || u.Status != p.lastStatus
	newSnap := u.Snapshot != nil && !feed.Same(u.Snapshot, p.lastSnap)
	if !statusChanged && !newSnap {
		return nil
	}

	p.printed = true
	p.lastStatus = u.Status
	if newSnap {
		p.lastSnap = u.Snapshot
	}

	if p.format == FormatJSON {
		rec := Record{Time: p.now(), Status: u.Status}
		if u.Status != feed.StatusConnected {
			rec.Attempts = stats.Attempts
			rec.LastError = stats.LastError
		}
		if newSnap {
			rec.Snapshot = u.Snapshot
		}
		return p.enc.Encode(rec)
	}

	stamp := p.now().Format("15:04:05")
	if statusChanged {
		line := ui.StatusBadge(u.Status)
		if u.Status == feed.StatusDisconnected && stats.LastError != "" {
			line += ": " + stats.LastError
		}
		if _, err := fmt.Fprintf(p.w, "%s %s\n", stamp, line); err != nil {
			return err
		}
	}
	if newSnap {
		if _, err := fmt.Fprintf(p.w, "%s %s\n", stamp, Summary(u.Snapshot)); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders a snapshot as one line of key figures.
func Summary(snap feed.Snapshot) string {
	r, err := telemetry.Decode(snap)
	if err != nil {
		return fmt.Sprintf("unreadable snapshot (%d keys)", len(snap))
	}

	sys := r.System
	parts := []string{
		fmt.Sprintf("cpu %.1f%%", sys.CPU.UsagePercent),
		fmt.Sprintf("mem %.1f%%", sys.Memory.Percent),
	}
	if sys.GPU.Available {
		parts = append(parts, fmt.Sprintf("gpu %.1f%% vram %.1f%%", sys.GPU.UtilizationPercent, sys.GPU.MemoryPercent))
	}

	state, _ := r.VLLM.Server.ServerState()
	if state == "" {
		state = "unknown"
	}
	parts = append(parts,
		"vllm "+state,
		fmt.Sprintf("models %d/%d running", r.RunningModels(), len(r.Models)),
	)
	if len(r.Downloads) > 0 {
		parts = append(parts, fmt.Sprintf("downloads %d active", r.ActiveDownloads()))
	}
	return strings.Join(parts, " | ")
}
