package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/robot"
)

// Progress bar characters
const (
	barFilled = '█'
	barEmpty  = '░'
)

// RenderState formats a connection state as a single colored line, e.g.
// "● Connected to 192.168.1.1:8080".
func RenderState(s robot.State) string {
	var symbol string
	var color lipgloss.Color

	switch s.Kind {
	case robot.KindConnected:
		symbol, color = SymbolComplete, ColorSuccess
	case robot.KindConnecting:
		symbol, color = SymbolProgress, ColorSecondary
	case robot.KindError:
		symbol, color = SymbolFail, ColorError
	default:
		symbol, color = SymbolPending, ColorMuted
	}

	return lipgloss.NewStyle().Foreground(color).Render(symbol) + " " + RenderStateText(s)
}

// BatteryColor picks the color for a charge level.
func BatteryColor(level battery.Level) lipgloss.Color {
	switch level {
	case battery.LevelFull:
		return ColorSuccess
	case battery.LevelMedium:
		return ColorWarning
	default:
		return ColorError
	}
}

// BatterySymbol picks the glyph for a charge level.
func BatterySymbol(level battery.Level) string {
	switch level {
	case battery.LevelFull:
		return SymbolBatteryFull
	case battery.LevelMedium:
		return SymbolBatteryMedium
	default:
		return SymbolBatteryLow
	}
}

// RenderBattery formats a battery status as "▰▰▱ 45%". A nil status renders
// as unknown.
func RenderBattery(s *battery.Status) string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	if s == nil {
		return muted.Render(SymbolBatteryNone + " --%")
	}

	level := s.Level()
	style := lipgloss.NewStyle().Foreground(BatteryColor(level))
	return style.Render(BatterySymbol(level)) + " " + s.String()
}

// RenderBatteryBar renders a battery status as a bar like
// [████████████░░░░░░░░]  60%, colored by level.
func RenderBatteryBar(s *battery.Status, width int) string {
	if width <= 0 {
		return ""
	}

	percent := 0
	color := ColorMuted
	if s != nil {
		percent = s.Percentage
		color = BatteryColor(s.Level())
	}

	filledCount := percent * width / 100
	emptyCount := width - filledCount

	var sb strings.Builder
	sb.Grow(width + 10)
	sb.WriteRune('[')
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(barFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(barEmpty)
	}
	sb.WriteRune(']')

	label := " --%"
	if s != nil {
		label = fmt.Sprintf("%4d%%", percent)
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String()) + label
}

// FormatAge renders how long ago a reading was taken, e.g. "12s ago".
func FormatAge(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	d := now.Sub(at)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// FormatDuration renders a latency compactly: 850ms, 1.2s.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
