package overview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/config"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/services"
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
	state.SetLoading(app.QuerySeries, true)

	if !strings.Contains(m.View(), "Loading traffic") {
		t.Error("view should show the loading spinner before data arrives")
	}
}

func TestModel_ViewWithData(t *testing.T) {
	m, state := newTestModel(t)

	q := state.Query()
	resp := &models.SeriesResponse{
		Points: []models.SeriesPoint{
			{Bucket: q.Range.Start(), Requests: 10, Tokens: 500, DistinctUsers: 2},
			{Bucket: q.Range.Start().Add(15 * time.Minute), Requests: 20, Tokens: 900, DistinctUsers: 3},
		},
		TotalPoints: 2,
	}
	state.SetSeries(resp)
	m.Update(app.SeriesLoadedMsg{Series: resp})

	view := m.View()
	if !strings.Contains(view, "Traffic Overview") {
		t.Error("view should render the title")
	}
	if !strings.Contains(view, "Requests") {
		t.Error("view should render the KPI cards")
	}
}

func TestModel_EmptySeriesView(t *testing.T) {
	m, state := newTestModel(t)

	resp := &models.SeriesResponse{}
	state.SetSeries(resp)
	m.Update(app.SeriesLoadedMsg{Series: resp})

	if !strings.Contains(m.View(), "No traffic in the selected range") {
		t.Error("view should show the empty state for a series without points")
	}
}

func loadSeries(m *Model, state *app.State) {
	resp := &models.SeriesResponse{
		Points:      []models.SeriesPoint{{Bucket: state.Query().Range.Start(), Requests: 1}},
		TotalPoints: 1,
	}
	state.SetSeries(resp)
	m.Update(app.SeriesLoadedMsg{Query: state.Query(), Series: resp})
}

func TestModel_RangeChangeInvalidates(t *testing.T) {
	m, state := newTestModel(t)
	loadSeries(m, state)

	// A range change marks a hidden tab stale without refetching it.
	q := state.Query().WithRange(models.PresetLast6Hours.Range(time.Now()), models.PresetLast6Hours)
	state.SetQuery(q)
	_, cmd := m.Update(app.QueryChangedMsg{Query: q})
	if cmd != nil {
		t.Error("hidden tab should not refetch on invalidation")
	}
	if state.IsLoading(app.QuerySeries) {
		t.Error("no fetch should be issued until the tab is shown")
	}

	// Showing the tab again refetches for the new range.
	_, cmd = m.Update(app.TabSwitchMsg{Tab: app.TabOverview})
	if cmd == nil {
		t.Error("stale tab should refetch when switched to")
	}
	if !state.IsLoading(app.QuerySeries) {
		t.Error("refetch should mark the series query loading")
	}
}

func TestModel_UnchangedRangeKeepsData(t *testing.T) {
	m, state := newTestModel(t)
	loadSeries(m, state)

	// A context change that keeps the range does not touch the tab.
	q := state.Query().WithRule(models.RuleSharedIP)
	state.SetQuery(q)
	m.Update(app.QueryChangedMsg{Query: q})

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabOverview})
	if cmd != nil {
		t.Error("loaded tab with a current range should not refetch")
	}
	if state.IsLoading(app.QuerySeries) {
		t.Error("no fetch should be issued for an unchanged range")
	}
}

func TestModel_RangeChangeSupersedesInFlight(t *testing.T) {
	m, state := newTestModel(t)
	loadSeries(m, state)

	// A refresh is in flight when the range changes.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !state.IsLoading(app.QuerySeries) {
		t.Fatal("refresh should mark the series query loading")
	}

	q := state.Query().WithRange(models.PresetLastHour.Range(time.Now()), models.PresetLastHour)
	state.SetQuery(q)
	_, cmd := m.Update(app.QueryChangedMsg{Query: q})
	if cmd == nil {
		t.Error("range change should supersede the in-flight fetch")
	}
	if state.IsCurrent(app.QuerySeries, 1) {
		t.Error("the in-flight fetch should no longer be current")
	}
}

func TestModel_TabSwitchLoads(t *testing.T) {
	m, state := newTestModel(t)

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabOverview})
	if cmd == nil {
		t.Error("switching to an unloaded tab should start a fetch")
	}
	if !state.IsLoading(app.QuerySeries) {
		t.Error("fetch should mark the series query loading")
	}

	// Other tabs do not trigger a fetch here.
	m2, state2 := newTestModel(t)
	m2.Update(app.TabSwitchMsg{Tab: app.TabInfo})
	if state2.IsLoading(app.QuerySeries) {
		t.Error("switching to another tab should not fetch series")
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m, state := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Error("refresh key should start a fetch")
	}
	if !state.IsLoading(app.QuerySeries) {
		t.Error("refresh should mark the series query loading")
	}
}

func TestModel_ExportKey(t *testing.T) {
	m, state := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Error("export key should start an export")
	}
	if !state.IsLoading(app.QueryExport) {
		t.Error("export should mark the export query loading")
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
