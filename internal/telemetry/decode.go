// Package telemetry gives hosts a typed view of a feed.Snapshot.
//
// The session publishes snapshots as untyped documents so that new backend
// fields never break the stream. Hosts that want to render specific values
// call Decode, which is lenient: unknown keys are ignored, missing keys
// leave zero values and numbers are converted across widths.
package telemetry

import (
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/feed"
)

// Decode converts a snapshot into a Report.
func Decode(snap feed.Snapshot) (*Report, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrDecode,
			"No snapshot to decode",
			"Wait for the first frame from the backend")
	}

	var r Report
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &r,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			"Failed to build snapshot decoder", "")
	}

	if err := dec.Decode(map[string]any(snap)); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			"Snapshot does not match the expected layout",
			"Check that the backend version matches this client")
	}
	return &r, nil
}

// timestampLayouts covers Python isoformat output with and without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Time parses the report timestamp. Timestamps without a zone are taken as
// local time, which is what the backend writes.
func (r *Report) Time() (time.Time, bool) {
	if r.Timestamp == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, r.Timestamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DownloadNames returns download model names in sorted order.
func (r *Report) DownloadNames() []string {
	names := make([]string, 0, len(r.Downloads))
	for name := range r.Downloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveDownloads counts downloads still in progress.
func (r *Report) ActiveDownloads() int {
	n := 0
	for _, d := range r.Downloads {
		if d.Status == DownloadActive {
			n++
		}
	}
	return n
}

// RunningModels counts models the backend reports as running.
func (r *Report) RunningModels() int {
	n := 0
	for _, m := range r.Models {
		if m.Status == ModelRunning {
			n++
		}
	}
	return n
}

// RootDisk returns the disk mounted at "/", or the first disk if there is
// no root mount (Windows hosts report drive letters).
func (r *Report) RootDisk() (Disk, bool) {
	for _, d := range r.System.Disks {
		if d.MountPoint == "/" {
			return d, true
		}
	}
	if len(r.System.Disks) > 0 {
		return r.System.Disks[0], true
	}
	return Disk{}, false
}

// ServerState summarises the vLLM server status string. The backend packs
// the failure reason after a colon ("disconnected: connection refused").
func (s VLLMServer) ServerState() (state, detail string) {
	state, detail, _ = strings.Cut(s.Status, ":")
	return strings.TrimSpace(state), strings.TrimSpace(detail)
}
