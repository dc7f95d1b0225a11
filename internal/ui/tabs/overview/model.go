// Package overview provides the main traffic overview tab.
package overview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/api"
	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/ui/components"
)

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	Refresh key.Binding
	Export  key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
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
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the overview tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	viewport viewport.Model
	width    int
	height   int
	loaded   bool

	// loadedQuery is the query context the current data was fetched
	// with; a context change outside it marks the tab stale.
	loadedQuery models.QueryContext
}

// New creates a new overview model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading traffic..."),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the overview tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.commands.LoadSeries())
}

// Update handles messages for the overview tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.SeriesLoadedMsg:
		if msg.Err == nil && msg.Series != nil {
			m.loaded = true
			m.loadedQuery = msg.Query
		}

	case app.QueryChangedMsg:
		if msg.Query.Range != m.loadedQuery.Range {
			m.loaded = false
			if m.state.IsLoading(app.QuerySeries) {
				cmds = append(cmds, m.commands.LoadSeries())
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabOverview && !m.loaded && !m.state.IsLoading(app.QuerySeries) {
			cmds = append(cmds, m.commands.LoadSeries())
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
	case key.Matches(msg, m.keys.Refresh):
		return m.commands.LoadSeries()

	case key.Matches(msg, m.keys.Export):
		return m.commands.Export(api.ExportSeries)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// SetSize sets the available size for the overview tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
		m.keys.Export,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh, m.keys.Export},
		{m.keys.Up, m.keys.Down},
	}
}
