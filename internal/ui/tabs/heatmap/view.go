package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// View renders the heatmap tab.
func (m *Model) View() string {
	if !m.loaded && m.state.IsLoading(app.QueryHeatmap) {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderFieldSelector())
	sections = append(sections, m.renderGrid())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	q := m.state.Query()
	title := styles.TitleStyle.Render("Activity Heatmap")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("Weekday × hour (UTC) · %s", q.Preset.String()))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderFieldSelector() string {
	active := m.state.HeatmapField()

	var parts []string
	for _, f := range stats.ValueFields {
		if f == active {
			parts = append(parts, styles.SelectorActiveStyle.Render(f.String()))
		} else {
			parts = append(parts, styles.SelectorInactiveStyle.Render(f.String()))
		}
	}

	return styles.HelpStyle.Render("f ") + strings.Join(parts, " ") + "\n"
}

func (m *Model) renderGrid() string {
	h := m.state.Heatmap()
	if h == nil {
		return styles.EmptyStateStyle.Render("No activity in the selected range")
	}
	return components.RenderHeatGrid(*h)
}
