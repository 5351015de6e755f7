package drive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	labelStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(10)
	heldStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ui.ColorError)
	spinnerStyle = lipgloss.NewStyle().Foreground(ui.ColorSecondary)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorMuted).
			Padding(0, 1)
)

// trendWidth is how many battery readings the trend line shows.
const trendWidth = 24

// gaitNames are the display names for gait selectors.
var gaitNames = map[command.Command]string{
	command.TripodGait:    "Tripod",
	command.WaveGait:      "Wave",
	command.RippleGait:    "Ripple",
	command.StaircaseMode: "Staircase",
}

func (m Model) render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hexctl drive"))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(m.endpoint.String()))
	b.WriteString("\n\n")

	rows := []string{
		row("Link", m.renderState()),
		row("Battery", ui.RenderBatteryBar(m.battery, 20)),
	}
	if m.history.Len() > 1 {
		rows = append(rows, row("Trend", ui.RenderSparkline(m.history.Percentages(trendWidth), trendWidth, ui.ColorInfo)))
	}
	rows = append(rows,
		row("Gait", gaitNames[m.gait]),
		row("Moving", m.renderHeld()),
	)
	if m.lastSent != "" {
		rows = append(rows, row("Last", string(m.lastSent)))
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(ui.SymbolFail + " " + m.lastErr))
		b.WriteString("\n")
	}

	if !m.state.IsConnected() && m.state.Kind != robot.KindConnecting {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("Press c to connect."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderState() string {
	if m.state.Kind == robot.KindConnecting {
		return m.spinner.View() + " Connecting..."
	}
	return ui.RenderState(m.state)
}

func (m Model) renderHeld() string {
	if m.held == "" {
		return "-"
	}
	return heldStyle.Render(string(m.held))
}

func row(label, value string) string {
	return fmt.Sprintf("%s%s", labelStyle.Render(label), value)
}

func firstLine(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ui.SymbolFail))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
