package components

import (
	"fmt"
	"strings"

	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHeatGrid draws the weekday-by-hour grid. One row per weekday,
// Sunday first, one cell per UTC hour. Cells are shaded relative to
// the grid maximum.
func RenderHeatGrid(h stats.Heatmap) string {
	maxVal := h.Max()
	if maxVal == 0 {
		return styles.EmptyStateStyle.Render("No activity in the selected range")
	}

	var b strings.Builder

	// Hour ruler, every third hour labeled
	b.WriteString("    ")
	for hour := 0; hour < 24; hour++ {
		if hour%3 == 0 {
			b.WriteString(fmt.Sprintf("%-3d", hour))
		}
	}
	b.WriteString("\n")

	for day := 0; day < 7; day++ {
		b.WriteString(fmt.Sprintf("%-4s", stats.HeatmapDays[day]))
		for hour := 0; hour < 24; hour++ {
			b.WriteString(renderHeatCell(h.Cells[day][hour], maxVal))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHeatScale(maxVal))

	return b.String()
}

func renderHeatCell(value, maxVal float64) string {
	if value <= 0 {
		return styles.HeatStyle(0).Render(string(HeatmapBlocks[0]))
	}

	norm := value / maxVal
	intensity := int(norm * float64(len(HeatmapBlocks)-1))
	if intensity >= len(HeatmapBlocks) {
		intensity = len(HeatmapBlocks) - 1
	}
	if intensity < 1 {
		intensity = 1
	}

	return styles.HeatStyle(norm).Render(string(HeatmapBlocks[intensity]))
}

// renderHeatScale draws the intensity legend under the grid.
func renderHeatScale(maxVal float64) string {
	var b strings.Builder
	b.WriteString(styles.HelpStyle.Render("less "))
	steps := 5
	for i := 0; i <= steps; i++ {
		norm := float64(i) / float64(steps)
		b.WriteString(renderHeatCell(norm*maxVal, maxVal))
	}
	b.WriteString(styles.HelpStyle.Render(" more"))
	b.WriteString("  ")
	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("peak %s", stats.FormatCount(int64(maxVal)))))
	return b.String()
}
