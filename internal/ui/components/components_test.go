package components

import (
	"strings"
	"testing"
	"time"

	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
)

func TestRenderLineChart(t *testing.T) {
	out := RenderLineChart([]float64{1, 5, 3, 8, 2}, 40, 5, "caption")
	if out == "" {
		t.Fatal("empty chart output")
	}
	if !strings.Contains(out, "caption") {
		t.Error("caption missing")
	}

	empty := RenderLineChart(nil, 40, 5, "")
	if !strings.Contains(empty, "No data") {
		t.Errorf("empty data output = %q", empty)
	}
}

func TestRenderDualLineChart(t *testing.T) {
	out := RenderDualLineChart([]float64{1, 2, 3}, []float64{10, 20, 30}, 40, 5, "traffic")
	if out == "" || !strings.Contains(out, "traffic") {
		t.Errorf("output = %q", out)
	}

	// Unequal lengths are zero-padded, not an error.
	out = RenderDualLineChart([]float64{1}, []float64{1, 2, 3, 4}, 40, 5, "")
	if out == "" {
		t.Error("unequal series should still render")
	}

	empty := RenderDualLineChart(nil, nil, 40, 5, "")
	if !strings.Contains(empty, "No data") {
		t.Errorf("empty output = %q", empty)
	}
}

func TestRenderBarChart(t *testing.T) {
	series := stats.ChartSeries{
		Categories: []string{"alice", "bob"},
		Values:     []float64{9000, 4500},
	}

	out := RenderBarChart(series, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	// Input order is preserved and values are grouped.
	if !strings.Contains(lines[0], "alice") || !strings.Contains(lines[0], "9,000") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "bob") || !strings.Contains(lines[1], "4,500") {
		t.Errorf("second line = %q", lines[1])
	}

	// The largest value owns the longest bar.
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("bar lengths should follow values")
	}

	if RenderBarChart(stats.ChartSeries{}, 60) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	out := RenderSparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if len([]rune(out)) != 8 {
		t.Errorf("sparkline runes = %d, want 8", len([]rune(out)))
	}
	if RenderSparkline(nil, 8) != "" {
		t.Error("empty values should render nothing")
	}
}

func TestRenderHeatGrid(t *testing.T) {
	var h stats.Heatmap
	empty := RenderHeatGrid(h)
	if !strings.Contains(empty, "No activity") {
		t.Errorf("empty grid = %q", empty)
	}

	h.Cells[1][10] = 50
	h.Cells[5][23] = 10

	out := RenderHeatGrid(h)
	for _, day := range stats.HeatmapDays {
		if !strings.Contains(out, day) {
			t.Errorf("day label %q missing", day)
		}
	}
	if !strings.Contains(out, "peak 50") {
		t.Errorf("legend should name the peak, got %q", out)
	}

	// 7 day rows plus ruler and legend.
	lines := strings.Split(out, "\n")
	if len(lines) < 9 {
		t.Errorf("grid lines = %d", len(lines))
	}
}

func TestKPICardsFor(t *testing.T) {
	totals := stats.KPITotals{
		TotalRequests:  1_500_000,
		TotalTokens:    42_000,
		PeakUsers:      1234,
		PeakTokenKinds: 9,
	}

	cards := KPICardsFor(totals)
	if len(cards) != 4 {
		t.Fatalf("cards = %d, want 4", len(cards))
	}

	want := []KPICard{
		{Label: "Requests", Value: "1.5M"},
		{Label: "Tokens", Value: "42.0K"},
		{Label: "Peak Users", Value: "1,234"},
		{Label: "Peak Token Kinds", Value: "9"},
	}
	for i, w := range want {
		if cards[i] != w {
			t.Errorf("card %d = %+v, want %+v", i, cards[i], w)
		}
	}
}

func TestRenderKPIRow(t *testing.T) {
	cards := KPICardsFor(stats.KPITotals{TotalRequests: 10})
	out := RenderKPIRow(cards, 80)
	if !strings.Contains(out, "Requests") || !strings.Contains(out, "10") {
		t.Errorf("row = %q", out)
	}

	if RenderKPIRow(nil, 80) != "" {
		t.Error("no cards should render nothing")
	}
}

func TestRenderLegend(t *testing.T) {
	out := RenderLegend([]LegendItem{
		{Label: "Requests"},
		{Label: "Tokens"},
	})
	if !strings.Contains(out, "Requests") || !strings.Contains(out, "Tokens") {
		t.Errorf("legend = %q", out)
	}
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading traffic...")
	if s.Label() != "Loading traffic..." {
		t.Errorf("label = %q", s.Label())
	}
	if s.Init() == nil {
		t.Error("Init returned nil")
	}
	if !strings.Contains(s.ViewWithLabel(), "Loading traffic...") {
		t.Error("ViewWithLabel should include the label")
	}
}

func TestHeatGridUsesSeriesData(t *testing.T) {
	// End-to-end: series points flow into the rendered grid.
	monday := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	h := stats.ToHeatmap([]models.SeriesPoint{{Bucket: monday, Requests: 3}}, stats.FieldRequests)

	out := RenderHeatGrid(h)
	if !strings.Contains(out, "Mon") {
		t.Error("grid should label Monday")
	}
	if !strings.Contains(out, "peak 3") {
		t.Errorf("peak should be 3, got %q", out)
	}
}
