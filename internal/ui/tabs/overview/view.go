package overview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if !m.loaded && m.state.IsLoading(app.QuerySeries) {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderKPIs())
	sections = append(sections, m.renderChart())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	q := m.state.Query()
	title := styles.TitleStyle.Render("Traffic Overview")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s · %ds buckets · auto-refresh",
		q.Preset.String(), q.Granularity()))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderKPIs() string {
	cards := components.KPICardsFor(m.state.KPIs())
	return components.RenderKPIRow(cards, m.width-6)
}

func (m *Model) renderChart() string {
	series := m.state.Series()
	if series == nil || len(series.Points) == 0 {
		return styles.EmptyStateStyle.Render("No traffic in the selected range")
	}

	q := m.state.Query()
	filled := stats.FillGaps(q.Range, q.Granularity(), series.Points)

	requests := make([]float64, 0, len(filled))
	tokens := make([]float64, 0, len(filled))
	for _, p := range filled {
		requests = append(requests, float64(p.Requests))
		tokens = append(tokens, float64(p.Tokens))
	}

	chartWidth := max(m.width-16, 20)
	chartHeight := max(m.height-16, 6)

	caption := fmt.Sprintf("%s - %s (UTC)",
		q.Range.Start().Format("01-02 15:04"),
		q.Range.End().Format("01-02 15:04"))

	chart := components.RenderDualLineChart(requests, tokens, chartWidth, chartHeight, caption)

	legend := components.RenderLegend([]components.LegendItem{
		{Label: "Requests", Color: styles.Info},
		{Label: "Tokens", Color: styles.Success},
	})

	return lipgloss.JoinVertical(lipgloss.Left, "", chart, "", legend)
}
