// Package top provides the leaderboard tab.
package top

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dverley/gatewatch/internal/api"
	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
	"github.com/dverley/gatewatch/internal/ui/components"
	"github.com/dverley/gatewatch/internal/ui/styles"
)

// keyMap defines the key bindings specific to the leaderboard tab.
type keyMap struct {
	Dimension key.Binding
	Metric    key.Binding
	Sort      key.Binding
	Refresh   key.Binding
	Export    key.Binding
	Up        key.Binding
	Down      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Dimension: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle dimension"),
		),
		Metric: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle metric"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort column"),
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

// Model represents the leaderboard tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	table    table.Model
	width    int
	height   int
	loaded   bool

	// loadedQuery is the query context the current rows were fetched
	// with; a relevant context change marks the tab stale.
	loadedQuery models.QueryContext

	// sortCol indexes the measure column rows are ordered by; -1
	// keeps the server's ranking order.
	sortCol int

	// order maps a table row index to its item index in the response.
	order []int
}

// New creates a new leaderboard model.
func New(state *app.State, commands *app.Commands) *Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
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
		spinner:  components.NewSpinner("Loading leaderboard..."),
		table:    t,
		sortCol:  -1,
	}
	m.rebuildColumns()
	return m
}

// Init initializes the leaderboard tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the leaderboard tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.RankLoadedMsg:
		if msg.Err == nil && msg.Rank != nil {
			m.loaded = true
			m.loadedQuery = msg.Query
			m.rebuildColumns()
			m.rebuildRows()
		}

	case app.QueryChangedMsg:
		if m.staleFor(msg.Query) {
			m.loaded = false
			if msg.Query.Dimension != m.loadedQuery.Dimension {
				m.rebuildColumns()
				m.order = nil
				m.table.SetRows(nil)
			}
			if m.state.IsLoading(app.QueryTop) {
				cmds = append(cmds, m.commands.LoadRank())
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabTop && !m.loaded && !m.state.IsLoading(app.QueryTop) {
			cmds = append(cmds, m.commands.LoadRank())
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
	case key.Matches(msg, m.keys.Dimension):
		q := m.state.Query()
		return m.commands.SetQuery(q.WithDimension(q.Dimension.Next()))

	case key.Matches(msg, m.keys.Metric):
		q := m.state.Query()
		return m.commands.SetQuery(q.WithMetric(q.Metric.Next()))

	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		return nil

	case key.Matches(msg, m.keys.Refresh):
		return m.commands.LoadRank()

	case key.Matches(msg, m.keys.Export):
		return m.commands.Export(api.ExportTop)

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
}

// staleFor reports whether the current rows were fetched with a
// different leaderboard query than q.
func (m *Model) staleFor(q models.QueryContext) bool {
	lq := m.loadedQuery
	return q.Range != lq.Range ||
		q.Dimension != lq.Dimension ||
		q.Metric != lq.Metric ||
		q.Limit != lq.Limit
}

// rebuildColumns resets the table columns for the current dimension.
func (m *Model) rebuildColumns() {
	spec := stats.RankColumnsFor(m.state.Query().Dimension)
	cols := make([]table.Column, 0, len(spec))
	for _, c := range spec {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	m.table.SetColumns(cols)
}

// cycleSort advances the sort column through the measure columns and
// back to server order, then reorders the visible rows.
func (m *Model) cycleSort() {
	spec := stats.RankColumnsFor(m.state.Query().Dimension)
	col := m.sortCol
	for {
		col++
		if col >= len(spec) {
			col = -1
			break
		}
		if spec[col].Value != nil {
			break
		}
	}
	m.sortCol = col
	m.rebuildRows()
}

// rebuildRows regenerates table rows from the stored response. The
// rank cell always shows the item's position in server order, even
// when a measure column reorders the rows.
func (m *Model) rebuildRows() {
	resp := m.state.Rank()
	if resp == nil {
		m.order = nil
		m.table.SetRows(nil)
		return
	}

	spec := stats.RankColumnsFor(resp.Dimension)
	m.order = rowOrder(resp.Items, spec, m.sortCol)

	rows := make([]table.Row, 0, len(resp.Items))
	for _, idx := range m.order {
		item := resp.Items[idx]
		row := make(table.Row, 0, len(spec))
		for _, c := range spec {
			row = append(row, c.Cell(idx+1, item))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// rowOrder returns item indices in display order. Measure sorts
// compare the raw numeric values, descending, and are stable so ties
// keep the server's ranking.
func rowOrder(items []models.RankItem, spec []stats.RankColumn, sortCol int) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if sortCol < 0 || sortCol >= len(spec) || spec[sortCol].Value == nil {
		return order
	}

	value := spec[sortCol].Value
	sort.SliceStable(order, func(a, b int) bool {
		return value(items[order[a]]) > value(items[order[b]])
	})
	return order
}

// selectedItem returns the rank item under the table cursor.
func (m *Model) selectedItem() (models.RankItem, bool) {
	resp := m.state.Rank()
	if resp == nil {
		return nil, false
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.order) {
		return nil, false
	}
	return resp.Items[m.order[idx]], true
}

// SetSize sets the available size for the leaderboard tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := max(height-chartReserve(height)-8, 4)
	m.table.SetHeight(tableHeight)
}

// chartReserve is how many rows the bar chart keeps above the table.
func chartReserve(height int) int {
	reserve := height / 3
	if reserve > stats.DefaultChartTopK+2 {
		reserve = stats.DefaultChartTopK + 2
	}
	if reserve < 6 {
		reserve = 6
	}
	return reserve
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Dimension,
		m.keys.Metric,
		m.keys.Sort,
		m.keys.Refresh,
		m.keys.Export,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Dimension, m.keys.Metric},
		{m.keys.Sort, m.keys.Refresh, m.keys.Export},
		{m.keys.Up, m.keys.Down},
	}
}
