// Package dashboard implements the full-screen TUI for a vdash session.
//
// The dashboard shows the published connection status and the latest
// telemetry snapshot: CPU, memory, GPU and disk usage, the vLLM server and
// its metrics, managed models and model downloads.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: Holds the last update, the decoded report and short metric history
//   - Update: Processes keystrokes, focus changes, ticks and session updates
//   - View: Renders the current state to a string for display
//
// # Message Flow
//
// The model never touches session internals. The session publishes into a
// feed.Latest mailbox and the model drains it with a command:
//
//  1. waitForUpdate blocks on the mailbox and returns an updateMsg
//  2. Update decodes the snapshot, records history and re-arms waitForUpdate
//  3. A one-second tickMsg refreshes "updated Ns ago" and reconnect stats
//
// Terminal focus (tea.FocusMsg) and the r key are liveness hints: both call
// Source.LivenessHint so a dashboard brought back into view reconnects at
// once instead of waiting for the retry timer.
package dashboard
