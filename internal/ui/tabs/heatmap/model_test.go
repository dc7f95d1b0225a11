package heatmap

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/config"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/services"
	"github.com/dverley/gatewatch/internal/stats"
)

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()

	mgr, err := services.NewManager(&config.Config{
		APIBaseURL:            "http://localhost:8080/api",
		RequestTimeout:        time.Second,
		SeriesRefreshInterval: time.Minute,
		ExportDir:             t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	state := app.NewState()
	m := New(state, app.NewCommands(mgr, state))
	m.SetSize(120, 50)
	return m, state
}

func TestNew(t *testing.T) {
	m, _ := newTestModel(t)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should return a command")
	}
}

func TestModel_LoadingView(t *testing.T) {
	m, state := newTestModel(t)
	state.SetLoading(app.QueryHeatmap, true)

	if !strings.Contains(m.View(), "Loading heatmap") {
		t.Error("view should show the loading spinner before data arrives")
	}
}

func TestModel_ViewWithData(t *testing.T) {
	m, state := newTestModel(t)

	var h stats.Heatmap
	h.Cells[2][9] = 5
	state.SetHeatmap(&h)
	m.Update(app.HeatmapLoadedMsg{Heatmap: &h})

	view := m.View()
	if !strings.Contains(view, "Activity Heatmap") {
		t.Error("view should render the title")
	}
	if !strings.Contains(view, "peak 5") {
		t.Errorf("legend should name the peak, got %q", view)
	}
}

func TestModel_EmptyView(t *testing.T) {
	m, _ := newTestModel(t)

	if !strings.Contains(m.View(), "No activity in the selected range") {
		t.Error("view should show the empty state without a heatmap")
	}
}

func TestModel_CycleField(t *testing.T) {
	m, state := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if cmd == nil {
		t.Error("field key should start a reload")
	}
	if got := state.HeatmapField(); got != stats.FieldTokens {
		t.Errorf("HeatmapField = %v, want tokens", got)
	}
	if !state.IsLoading(app.QueryHeatmap) {
		t.Error("field change should mark the heatmap query loading")
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m, state := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Error("refresh key should start a fetch")
	}
	if !state.IsLoading(app.QueryHeatmap) {
		t.Error("refresh should mark the heatmap query loading")
	}
}

func TestModel_RangeChangeInvalidates(t *testing.T) {
	m, state := newTestModel(t)

	var h stats.Heatmap
	h.Cells[0][0] = 1
	state.SetHeatmap(&h)
	m.Update(app.HeatmapLoadedMsg{Query: state.Query(), Heatmap: &h})

	// A range change marks a hidden tab stale without refetching it.
	q := state.Query().WithRange(models.PresetLast7Days.Range(time.Now()), models.PresetLast7Days)
	state.SetQuery(q)
	_, cmd := m.Update(app.QueryChangedMsg{Query: q})
	if cmd != nil {
		t.Error("hidden tab should not refetch on invalidation")
	}
	if state.IsLoading(app.QueryHeatmap) {
		t.Error("no fetch should be issued until the tab is shown")
	}

	// Showing the tab again refetches for the new range.
	_, cmd = m.Update(app.TabSwitchMsg{Tab: app.TabHeatmap})
	if cmd == nil {
		t.Error("stale tab should refetch when switched to")
	}
	if !state.IsLoading(app.QueryHeatmap) {
		t.Error("refetch should mark the heatmap query loading")
	}
}

func TestModel_UnchangedRangeKeepsData(t *testing.T) {
	m, state := newTestModel(t)

	var h stats.Heatmap
	state.SetHeatmap(&h)
	m.Update(app.HeatmapLoadedMsg{Query: state.Query(), Heatmap: &h})

	// Leaderboard context changes do not concern the heatmap.
	q := state.Query().WithDimension(models.DimensionChannel)
	state.SetQuery(q)
	m.Update(app.QueryChangedMsg{Query: q})

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHeatmap})
	if cmd != nil {
		t.Error("loaded tab with a current range should not refetch")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp should not be empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
