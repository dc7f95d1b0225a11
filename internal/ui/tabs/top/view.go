package top

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// View renders the leaderboard tab.
func (m *Model) View() string {
	if !m.loaded && m.state.IsLoading(app.QueryTop) {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderSelectors())

	resp := m.state.Rank()
	if resp == nil || len(resp.Items) == 0 {
		sections = append(sections, styles.EmptyStateStyle.Render("No activity in the selected range"))
	} else {
		sections = append(sections, m.renderChart(resp))
		sections = append(sections, m.table.View())
		sections = append(sections, m.renderFooter(resp))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	q := m.state.Query()
	title := styles.TitleStyle.Render("Leaderboard")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("Top %s by %s · %s",
		q.Dimension.String(), q.Metric.String(), q.Preset.String()))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderSelectors shows the dimension and metric cycles.
func (m *Model) renderSelectors() string {
	q := m.state.Query()

	var dims []string
	for _, d := range models.Dimensions {
		if d == q.Dimension {
			dims = append(dims, styles.SelectorActiveStyle.Render(d.String()))
		} else {
			dims = append(dims, styles.SelectorInactiveStyle.Render(d.String()))
		}
	}

	var mets []string
	for _, mt := range models.Metrics {
		if mt == q.Metric {
			mets = append(mets, styles.SelectorActiveStyle.Render(mt.String()))
		} else {
			mets = append(mets, styles.SelectorInactiveStyle.Render(mt.String()))
		}
	}

	line := styles.HelpStyle.Render("d ") + strings.Join(dims, " ") +
		styles.HelpStyle.Render("   m ") + strings.Join(mets, " ")

	return line + "\n"
}

func (m *Model) renderChart(resp *models.RankResponse) string {
	series := stats.ToChartSeries(resp.Items, resp.Metric, stats.DefaultChartTopK)
	chart := components.RenderBarChart(series, max(m.width-8, 30))
	return chart + "\n"
}

func (m *Model) renderFooter(resp *models.RankResponse) string {
	parts := []string{
		fmt.Sprintf("%d entries", len(resp.Items)),
	}

	if spec := stats.RankColumnsFor(resp.Dimension); m.sortCol >= 0 && m.sortCol < len(spec) {
		parts = append(parts, fmt.Sprintf("sorted by %s", spec[m.sortCol].Title))
	}

	if item, ok := m.selectedItem(); ok {
		parts = append(parts, fmt.Sprintf("%s: %s %s",
			item.Label(),
			stats.FormatGrouped(int64(item.Measures().Value(resp.Metric))),
			resp.Metric.String()))
	}

	return styles.HelpStyle.Render(strings.Join(parts, " · "))
}
