package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders percentages (0-100) as one row of block characters.
// Only the newest width values are drawn; fewer values give a shorter line.
func RenderSparkline(data []float64, width int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	top := len(sparklineBlocks) - 1

	var sb strings.Builder
	for _, v := range data {
		switch {
		case v < 0:
			v = 0
		case v > 100:
			v = 100
		}
		idx := int(v / 100 * float64(top))
		sb.WriteRune(sparklineBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
