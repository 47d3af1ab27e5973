package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/telemetry"
	"github.com/rileyhilliard/vdash/internal/ui"
)

const (
	cardWidth  = 46
	barWidth   = 12
	sparkWidth = 20
	labelWidth = 6
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.report != nil {
		b.WriteString(m.renderCards())
		b.WriteString("\n")
	}

	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderHeader renders the title, status badge, endpoint and data age.
func (m Model) renderHeader() string {
	badge := ui.StatusBadge(m.status)
	if m.status == feed.StatusConnecting {
		badge = m.spinner.View() + lipgloss.NewStyle().Foreground(ui.StatusColor(m.status)).Render(" "+m.status.String())
	}

	endpoint := ""
	if m.source != nil {
		endpoint = m.source.URL()
	}
	if m.via != "" {
		endpoint += " via " + m.via
	}

	parts := []string{TitleStyle.Render("vdash"), badge}
	if endpoint != "" {
		parts = append(parts, MutedStyle.Render(endpoint))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, MutedStyle.Render("updated "+formatAge(m.now().Sub(m.lastUpdate).Seconds())))
	}

	return HeaderStyle.Render(strings.Join(parts, MutedStyle.Render(" | ")))
}

// renderBanner explains why the cards are stale or missing. Empty when the
// stream is open and rendering normally.
func (m Model) renderBanner() string {
	var text string
	color := ui.ColorWarning

	switch m.status {
	case feed.StatusConnecting:
		text = fmt.Sprintf("Connecting (attempt %d)", max(m.stats.Attempts, 1))
	case feed.StatusDisconnected:
		color = ui.ColorError
		text = fmt.Sprintf("Disconnected, retrying every %s", m.retry)
		if m.stats.Attempts > 0 {
			text += fmt.Sprintf(" (attempt %d)", m.stats.Attempts)
		}
		if m.stats.LastError != "" {
			text += ": " + m.stats.LastError
		}
		text += ". Press r to retry now."
	case feed.StatusConnected:
		switch {
		case m.decodeErr != "":
			text = "Latest snapshot could not be read: " + m.decodeErr
		case m.report == nil:
			color = ui.ColorInfo
			text = "Waiting for the first snapshot"
		}
	}

	if text == "" {
		return ""
	}
	if m.report != nil && m.status != feed.StatusConnected {
		text += " Showing last known data."
	}
	return BannerStyle.Foreground(color).Render(text)
}

// renderCards lays out the four cards in as many columns as fit.
func (m Model) renderCards() string {
	cards := []string{
		m.renderSystemCard(),
		m.renderVLLMCard(),
		m.renderModelsCard(),
		m.renderDownloadsCard(),
	}

	perRow := 1
	if m.width > 0 {
		perRow = m.width / (cardWidth + 3)
	}
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func card(title string, lines []string) string {
	body := append([]string{CardTitleStyle.Render(title)}, lines...)
	return CardStyle.Width(cardWidth).Render(strings.Join(body, "\n"))
}

func label(s string) string {
	return LabelStyle.Width(labelWidth).Render(s)
}

func (m Model) renderSystemCard() string {
	sys := m.report.System
	th := m.thresholds
	var lines []string

	cpu := fmt.Sprintf("%s %s %s", label("CPU"),
		ProgressBar(barWidth, sys.CPU.UsagePercent, th.CPU),
		MetricStyle(sys.CPU.UsagePercent, th.CPU).Render(fmt.Sprintf("%5.1f%%", sys.CPU.UsagePercent)))
	detail := fmt.Sprintf(" %d cores", sys.CPU.CoreCount)
	if sys.CPU.Temperature != nil {
		detail += fmt.Sprintf(" %.0f°C", *sys.CPU.Temperature)
	}
	lines = append(lines, cpu+MutedStyle.Render(detail))
	if spark := m.sparkline(m.history.CPU(sparkWidth), th.CPU.Warning, th.CPU.Critical); spark != "" {
		lines = append(lines, label("")+" "+spark)
	}

	mem := sys.Memory
	lines = append(lines, fmt.Sprintf("%s %s %s%s", label("MEM"),
		ProgressBar(barWidth, mem.Percent, th.RAM),
		MetricStyle(mem.Percent, th.RAM).Render(fmt.Sprintf("%5.1f%%", mem.Percent)),
		MutedStyle.Render(fmt.Sprintf(" %.1f/%.1f GB", mem.UsedGB, mem.TotalGB))))

	gpu := sys.GPU
	if gpu.Available {
		lines = append(lines, fmt.Sprintf("%s %s %s%s", label("GPU"),
			ProgressBar(barWidth, gpu.UtilizationPercent, th.GPU),
			MetricStyle(gpu.UtilizationPercent, th.GPU).Render(fmt.Sprintf("%5.1f%%", gpu.UtilizationPercent)),
			MutedStyle.Render(fmt.Sprintf(" %.0f°C %.0fW", gpu.TemperatureC, gpu.PowerWatts))))
		lines = append(lines, fmt.Sprintf("%s %s %s%s", label("VRAM"),
			ProgressBar(barWidth, gpu.MemoryPercent, th.GPU),
			MetricStyle(gpu.MemoryPercent, th.GPU).Render(fmt.Sprintf("%5.1f%%", gpu.MemoryPercent)),
			MutedStyle.Render(fmt.Sprintf(" %.1f/%.1f GB", gpu.MemoryUsedGB, gpu.MemoryTotalGB))))
		if gpu.Name != "" {
			lines = append(lines, label("")+" "+MutedStyle.Render(truncate(gpu.Name, cardWidth-labelWidth-1)))
		}
	} else {
		lines = append(lines, label("GPU")+" "+MutedStyle.Render("unavailable"))
	}

	// Disk has no threshold of its own and shares the memory levels.
	if disk, ok := m.report.RootDisk(); ok {
		lines = append(lines, fmt.Sprintf("%s %s %s%s", label("DISK"),
			ProgressBar(barWidth, disk.Percent, th.RAM),
			MetricStyle(disk.Percent, th.RAM).Render(fmt.Sprintf("%5.1f%%", disk.Percent)),
			MutedStyle.Render(fmt.Sprintf(" %.0f/%.0f GB %s", disk.UsedGB, disk.TotalGB, disk.MountPoint))))
	}

	net := sys.Network
	lines = append(lines, fmt.Sprintf("%s %s", label("NET"),
		ValueStyle.Render(fmt.Sprintf("↑ %s  ↓ %s", formatMB(net.BytesSentMB), formatMB(net.BytesRecvMB)))))

	return card("System", lines)
}

func (m Model) sparkline(data []float64, warning, critical int) string {
	if len(data) < 2 {
		return ""
	}
	if warning == 0 && critical == 0 {
		warning, critical = 70, 90
	}
	return ui.RenderSparkline(data, sparkWidth, warning, critical)
}

func (m Model) renderVLLMCard() string {
	v := m.report.VLLM
	state, detail := v.Server.ServerState()
	if state == "" {
		state = "unknown"
	}

	color := ui.ColorError
	symbol := ui.SymbolOffline
	if v.Server.Connected {
		color = ui.ColorSuccess
		symbol = ui.SymbolConnected
	}

	server := lipgloss.NewStyle().Foreground(color).Render(symbol + " " + state)
	if v.Server.Version != "" {
		server += MutedStyle.Render(" v" + strings.TrimPrefix(v.Server.Version, "v"))
	}

	lines := []string{label("Server") + " " + server}
	if detail != "" {
		lines = append(lines, label("")+" "+MutedStyle.Render(truncate(detail, cardWidth-labelWidth-1)))
	}
	if v.Server.URL != "" {
		lines = append(lines, label("URL")+" "+ValueStyle.Render(truncate(v.Server.URL, cardWidth-labelWidth-1)))
	}

	met := v.Metrics
	lines = append(lines,
		label("Models")+" "+ValueStyle.Render(fmt.Sprintf("%d loaded", v.Server.ModelsLoaded)),
		label("Reqs")+" "+ValueStyle.Render(fmt.Sprintf("%d running, %d total", met.RequestsRunning, met.RequestsTotal)),
		label("Tokens")+" "+ValueStyle.Render(fmt.Sprintf("%d generated", met.TokensGenerated)),
		label("Speed")+" "+ValueStyle.Render(fmt.Sprintf("%.1f tok/s, %.0f ms avg", met.ThroughputTokensPerSec, met.AvgLatencyMs)),
	)

	return card("vLLM", lines)
}

func (m Model) renderModelsCard() string {
	models := m.report.Models
	title := fmt.Sprintf("Models (%d/%d running)", m.report.RunningModels(), len(models))
	if len(models) == 0 {
		return card(title, []string{MutedStyle.Render("No models")})
	}

	var lines []string
	for _, model := range models {
		color := ui.ColorMuted
		switch model.Status {
		case telemetry.ModelRunning:
			color = ui.ColorSuccess
		case telemetry.ModelStarting:
			color = ui.ColorWarning
		case telemetry.ModelZombie:
			color = ui.ColorError
		}
		status := lipgloss.NewStyle().Foreground(color).Render(ui.SymbolConnected + " " + model.Status)
		name := truncate(model.Name, cardWidth-24)
		port := ""
		if model.Port != "" {
			port = MutedStyle.Render(" :" + model.Port)
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", status, ValueStyle.Render(name), port))
	}
	return card(title, lines)
}

func (m Model) renderDownloadsCard() string {
	names := m.report.DownloadNames()
	title := fmt.Sprintf("Downloads (%d active)", m.report.ActiveDownloads())
	if len(names) == 0 {
		return card(title, []string{MutedStyle.Render("No downloads")})
	}

	var lines []string
	for _, name := range names {
		d := m.report.Downloads[name]
		color := ui.ColorInfo
		switch d.Status {
		case telemetry.DownloadDone:
			color = ui.ColorSuccess
		case telemetry.DownloadError:
			color = ui.ColorError
		}
		lines = append(lines,
			ValueStyle.Render(truncate(name, cardWidth-2)),
			"  "+lipgloss.NewStyle().Foreground(color).Render(d.Status)+" "+
				MutedStyle.Render(truncate(d.Progress, cardWidth-len(d.Status)-5)))
	}
	return card(title, lines)
}

// formatAge renders seconds as "just now", "1s ago", "42s ago" or "3m ago".
func formatAge(seconds float64) string {
	s := int(seconds)
	switch {
	case s <= 0:
		return "just now"
	case s < 60:
		return fmt.Sprintf("%ds ago", s)
	default:
		return fmt.Sprintf("%dm ago", s/60)
	}
}

// formatMB renders a megabyte count, switching to GB above 1024.
func formatMB(mb float64) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.1f MB", mb)
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
