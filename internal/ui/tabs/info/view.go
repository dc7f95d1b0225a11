package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/ui/styles"
	"github.com/dverley/gatewatch/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderBackendCard())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Backend, configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderBackendCard shows the backend endpoint and the latest health probe.
func (m *Model) renderBackendCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Backend"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderRow("Base URL", m.config.APIBaseURL))
	}

	status, err := m.state.Health()
	switch {
	case err != nil:
		rows = append(rows, m.renderRow("Status", styles.ErrorTextStyle.Render("unreachable: "+err.Error())))
	case status == nil:
		rows = append(rows, m.renderRow("Status", styles.HelpStyle.Render("not probed yet")))
	case status.OK:
		rows = append(rows, m.renderRow("Status", styles.SuccessTextStyle.Render("healthy")))
		if status.Version != "" {
			rows = append(rows, m.renderRow("Backend Version", status.Version))
		}
		if !status.Timestamp.IsZero() {
			rows = append(rows, m.renderRow("Probed", status.Timestamp.Format("2006-01-02 15:04:05")))
		}
	default:
		rows = append(rows, m.renderRow("Status", styles.ErrorTextStyle.Render("unhealthy")))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigCard renders the active configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		envPath := m.config.EnvPath
		if envPath == "" {
			envPath = "(environment only)"
		}
		rows = append(rows, m.renderRow("Env File", envPath))
		rows = append(rows, m.renderRow("Request Timeout", m.config.RequestTimeout.String()))
		rows = append(rows, m.renderRow("Health Poll", m.config.HealthPollInterval.String()))
		rows = append(rows, m.renderRow("Auto Refresh", m.config.SeriesRefreshInterval.String()))
		rows = append(rows, m.renderRow("Export Dir", m.config.ExportDir))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About gatewatch"))
	rows = append(rows, "")

	rows = append(rows, m.renderRow("Build", version.Info()))
	rows = append(rows, m.renderRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	if last := m.state.GetLastUpdated(); !last.IsZero() {
		rows = append(rows, "")
		rows = append(rows, m.renderRow("Last Data", last.Format("2006-01-02 15:04:05")))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) cardWidth() int {
	cardWidth := m.width - 6
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}
	return cardWidth
}
