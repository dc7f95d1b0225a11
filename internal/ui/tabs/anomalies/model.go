// Package anomalies provides the anomaly findings tab.
package anomalies

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/anomaly"
	"github.com/dverley/gatewatch/internal/api"
	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// keyMap defines the key bindings specific to the anomalies tab.
type keyMap struct {
	NextRule key.Binding
	PrevRule key.Binding
	Detail   key.Binding
	Close    key.Binding
	Refresh  key.Binding
	Export   key.Binding
	Up       key.Binding
	Down     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextRule: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next rule"),
		),
		PrevRule: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev rule"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "record detail"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close detail"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the anomalies tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	table    table.Model
	width    int
	height   int
	loaded   bool

	// detail holds the record pinned in the detail panel; nil when the
	// panel is closed. Switching rules always closes it.
	detail models.AnomalyRecord

	// loadedQuery is the query context the current rows were fetched
	// with; a relevant context change marks the tab stale.
	loadedQuery models.QueryContext
}

// New creates a new anomalies model.
func New(state *app.State, commands *app.Commands) *Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(styles.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Subtle)
	s.Selected = s.Selected.
		Background(styles.BgAccent).
		Foreground(styles.TextPrimary).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Scanning for anomalies..."),
		table:    t,
	}
	m.rebuildColumns()
	return m
}

// Init initializes the anomalies tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the anomalies tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.AnomaliesLoadedMsg:
		if msg.Err == nil && msg.Anomalies != nil {
			m.loaded = true
			m.loadedQuery = msg.Query
			m.rebuildColumns()
			m.rebuildRows()
		}

	case app.QueryChangedMsg:
		m.detail = nil
		if msg.Query.Rule != m.loadedQuery.Rule {
			// The old rows belong to the outgoing rule; the table
			// must never pair them with the new rule's columns.
			m.rebuildColumns()
			m.table.SetRows(nil)
		}
		if m.staleFor(msg.Query) {
			m.loaded = false
			if m.state.IsLoading(app.QueryAnomalies) {
				cmds = append(cmds, m.commands.LoadAnomalies())
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabAnomalies && !m.loaded && !m.state.IsLoading(app.QueryAnomalies) {
			cmds = append(cmds, m.commands.LoadAnomalies())
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextRule):
		return m.cycleRule(m.state.Query().Rule.Next())

	case key.Matches(msg, m.keys.PrevRule):
		return m.cycleRule(m.state.Query().Rule.Prev())

	case key.Matches(msg, m.keys.Detail):
		if rec, ok := m.selectedRecord(); ok {
			m.detail = rec
		}
		return nil

	case key.Matches(msg, m.keys.Close):
		m.detail = nil
		return nil

	case key.Matches(msg, m.keys.Refresh):
		return m.commands.LoadAnomalies()

	case key.Matches(msg, m.keys.Export):
		return m.commands.Export(api.ExportAnomalies)

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
}

// cycleRule changes the active rule. The detail panel belongs to the
// outgoing rule's records, so it closes unconditionally.
func (m *Model) cycleRule(next models.Rule) tea.Cmd {
	m.detail = nil
	q := m.state.Query()
	return m.commands.SetQuery(q.WithRule(next))
}

// staleFor reports whether the current rows were fetched with a
// different anomaly query than q.
func (m *Model) staleFor(q models.QueryContext) bool {
	lq := m.loadedQuery
	return q.Range != lq.Range ||
		q.Rule != lq.Rule ||
		q.RuleParams != lq.RuleParams
}

// rebuildColumns resets the table columns for the active rule.
func (m *Model) rebuildColumns() {
	spec := anomaly.ColumnsFor(m.state.Query().Rule)
	cols := make([]table.Column, 0, len(spec))
	for _, c := range spec {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	m.table.SetColumns(cols)
}

// rebuildRows regenerates table rows from the stored response.
func (m *Model) rebuildRows() {
	resp := m.state.Anomalies()
	if resp == nil {
		m.table.SetRows(nil)
		return
	}

	spec := anomaly.ColumnsFor(resp.Rule)
	rows := make([]table.Row, 0, len(resp.Records))
	for _, rec := range resp.Records {
		row := make(table.Row, 0, len(spec))
		for _, c := range spec {
			row = append(row, c.Cell(rec))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// selectedRecord returns the record under the table cursor.
func (m *Model) selectedRecord() (models.AnomalyRecord, bool) {
	resp := m.state.Anomalies()
	if resp == nil {
		return nil, false
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(resp.Records) {
		return nil, false
	}
	return resp.Records[idx], true
}

// SetSize sets the available size for the anomalies tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := max(height-10, 4)
	m.table.SetHeight(tableHeight)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.PrevRule,
		m.keys.NextRule,
		m.keys.Detail,
		m.keys.Refresh,
		m.keys.Export,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevRule, m.keys.NextRule},
		{m.keys.Detail, m.keys.Close},
		{m.keys.Refresh, m.keys.Export},
		{m.keys.Up, m.keys.Down},
	}
}
