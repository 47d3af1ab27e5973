package dashboard

import (
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/telemetry"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// Source is the part of a session the dashboard drives.
type Source interface {
	LivenessHint()
	Stats() feed.Stats
	URL() string
}

// Options configures a Model.
type Options struct {
	Source        Source
	Updates       <-chan feed.Update // usually feed.Latest.C()
	Thresholds    config.ThresholdsConfig
	Via           string        // SSH host the stream is tunnelled through, if any
	RetryInterval time.Duration // shown in the reconnect banner
	Logger        logger.Logger
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	source     Source
	updates    <-chan feed.Update
	thresholds config.ThresholdsConfig
	via        string
	retry      time.Duration
	log        logger.Logger

	status     feed.Status
	snapshot   feed.Snapshot
	report     *telemetry.Report
	decodeErr  string
	stats      feed.Stats
	history    *History
	lastUpdate time.Time
	now        func() time.Time

	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	showHelp bool
	quitting bool
	width    int
	height   int
}

// updateMsg carries one update drained from the mailbox.
type updateMsg feed.Update

// closedMsg means the update channel was closed.
type closedMsg struct{}

// tickMsg refreshes relative times and reconnect stats.
type tickMsg time.Time

const tickInterval = time.Second

// NewModel creates a dashboard model.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = feed.DefaultRetryInterval
	}

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: ui.SpinnerFrames, FPS: 150 * time.Millisecond}
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorWarning)

	return Model{
		source:     opts.Source,
		updates:    opts.Updates,
		thresholds: opts.Thresholds,
		via:        opts.Via,
		retry:      opts.RetryInterval,
		log:        opts.Logger,
		status:     feed.StatusConnecting,
		history:    NewHistory(DefaultHistorySize),
		now:        time.Now,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
}

// Init starts draining updates, the spinner and the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForUpdate(m.updates),
		m.spinner.Tick,
		tickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reconnect):
			m.hint("reconnect key")
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		}

	case tea.FocusMsg:
		m.hint("terminal focus")
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case updateMsg:
		m.apply(feed.Update(msg))
		return m, waitForUpdate(m.updates)

	case closedMsg:
		return m, nil

	case tickMsg:
		if m.source != nil {
			m.stats = m.source.Stats()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// Status returns the last status received from the session.
func (m Model) Status() feed.Status {
	return m.status
}

// Report returns the decoded form of the latest snapshot, or nil.
func (m Model) Report() *telemetry.Report {
	return m.report
}

// hint forwards a liveness hint to the session and refreshes stats.
func (m *Model) hint(reason string) {
	if m.source == nil {
		return
	}
	m.log.Debug("liveness hint: %s", reason)
	m.source.LivenessHint()
	m.stats = m.source.Stats()
}

// apply takes one published update. A snapshot that is the same map as
// the previous one only changes status; history advances only on new data.
func (m *Model) apply(u feed.Update) {
	m.status = u.Status
	if m.source != nil {
		m.stats = m.source.Stats()
	}

	if u.Snapshot == nil || feed.Same(u.Snapshot, m.snapshot) {
		return
	}
	m.snapshot = u.Snapshot
	m.lastUpdate = m.now()

	report, err := telemetry.Decode(u.Snapshot)
	if err != nil {
		m.decodeErr = summarize(err)
		m.log.Debug("snapshot not renderable: %v", err)
		return
	}
	m.decodeErr = ""
	m.report = report

	sys := report.System
	m.history.Push(sys.CPU.UsagePercent, sys.Memory.Percent, sys.GPU.UtilizationPercent, sys.GPU.Available)
}

func summarize(err error) string {
	var vdErr *errors.Error
	if stderrors.As(err, &vdErr) {
		return vdErr.Message
	}
	return err.Error()
}

func waitForUpdate(ch <-chan feed.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
