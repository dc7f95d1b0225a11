// Package heatmap provides the weekday-by-hour activity heatmap tab.
package heatmap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/ui/components"
)

// keyMap defines the key bindings specific to the heatmap tab.
type keyMap struct {
	Field   key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Field: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle value field"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// Model represents the heatmap tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	spinner  components.LoadingSpinner
	width    int
	height   int
	loaded   bool

	// loadedQuery is the query context the current grid was fetched
	// with; a range change outside it marks the tab stale.
	loadedQuery models.QueryContext
}

// New creates a new heatmap model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading heatmap..."),
	}
}

// Init initializes the heatmap tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the heatmap tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.HeatmapLoadedMsg:
		if msg.Err == nil && msg.Heatmap != nil {
			m.loaded = true
			m.loadedQuery = msg.Query
		}

	case app.QueryChangedMsg:
		if msg.Query.Range != m.loadedQuery.Range {
			m.loaded = false
			if m.state.IsLoading(app.QueryHeatmap) {
				cmds = append(cmds, m.commands.LoadHeatmap())
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHeatmap && !m.loaded && !m.state.IsLoading(app.QueryHeatmap) {
			cmds = append(cmds, m.commands.LoadHeatmap())
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
	case key.Matches(msg, m.keys.Field):
		m.state.SetHeatmapField(m.state.HeatmapField().Next())
		return m.commands.LoadHeatmap()

	case key.Matches(msg, m.keys.Refresh):
		return m.commands.LoadHeatmap()
	}
	return nil
}

// SetSize sets the available size for the heatmap tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Field,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Field, m.keys.Refresh},
	}
}
