package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// KPICard is one headline metric box.
type KPICard struct {
	Label string
	Value string
}

// KPICardsFor builds the four headline cards from aggregated totals.
// Requests and tokens are sums over the range; users and token kinds
// are peak concurrency gauges, not sums.
func KPICardsFor(t stats.KPITotals) []KPICard {
	return []KPICard{
		{Label: "Requests", Value: stats.FormatCount(t.TotalRequests)},
		{Label: "Tokens", Value: stats.FormatCount(t.TotalTokens)},
		{Label: "Peak Users", Value: stats.FormatGrouped(t.PeakUsers)},
		{Label: "Peak Token Kinds", Value: stats.FormatGrouped(t.PeakTokenKinds)},
	}
}

// RenderKPIRow renders the cards side by side within the given width.
func RenderKPIRow(cards []KPICard, width int) string {
	if len(cards) == 0 {
		return ""
	}

	cardWidth := width/len(cards) - 4
	if cardWidth < 12 {
		cardWidth = 12
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := styles.KPIValueStyle.Render(c.Value) + "\n" + styles.KPILabelStyle.Render(c.Label)
		rendered = append(rendered, styles.KPICardStyle.Width(cardWidth).Render(body))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
