package anomalies

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/anomaly"
	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// View renders the anomalies tab.
func (m *Model) View() string {
	if !m.loaded && m.state.IsLoading(app.QueryAnomalies) {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderRuleSelector())

	resp := m.state.Anomalies()
	if resp == nil || len(resp.Records) == 0 {
		sections = append(sections, styles.EmptyStateStyle.Render(
			anomaly.EmptyMessageFor(m.state.Query().Rule)))
	} else {
		sections = append(sections, m.table.View())
		sections = append(sections, styles.HelpStyle.Render(
			fmt.Sprintf("%d findings", resp.TotalCount)))
	}

	if m.detail != nil {
		sections = append(sections, "", m.renderDetail(m.detail))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	q := m.state.Query()
	title := styles.TitleStyle.Render("Anomalies")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s · %s", q.Rule.String(), m.renderParams(q)))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderParams shows the parameters relevant to the active rule.
func (m *Model) renderParams(q models.QueryContext) string {
	p := q.RuleParams
	switch q.Rule {
	case models.RuleBurst:
		return fmt.Sprintf("window %ds, limit %d req/token", p.WindowSec, p.LimitPerToken)
	case models.RuleSharedToken, models.RuleSharedIP:
		return fmt.Sprintf("threshold %d users", p.UsersThreshold)
	case models.RuleBigRequest:
		return fmt.Sprintf("sigma %.1f", p.Sigma)
	default:
		return ""
	}
}

func (m *Model) renderRuleSelector() string {
	active := m.state.Query().Rule

	var parts []string
	for _, r := range models.Rules {
		if r == active {
			parts = append(parts, styles.SelectorActiveStyle.Render(r.String()))
		} else {
			parts = append(parts, styles.SelectorInactiveStyle.Render(r.String()))
		}
	}

	return styles.HelpStyle.Render("[ ] ") + strings.Join(parts, " ") + "\n"
}

// renderDetail shows every field of the pinned record with full
// precision timestamps and two-decimal statistics.
func (m *Model) renderDetail(rec models.AnomalyRecord) string {
	fields := anomaly.DetailFieldsFor(rec.Rule())

	var lines []string
	lines = append(lines, styles.CardTitleStyle.Render(fmt.Sprintf("%s record", rec.Rule())))
	for _, f := range fields {
		lines = append(lines, styles.DetailLabelStyle.Render(f.Label)+f.Value(rec))
	}

	return styles.DetailPanelStyle.Render(strings.Join(lines, "\n"))
}
