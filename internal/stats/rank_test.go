package stats

import (
	"testing"

	"github.com/dverley/gatewatch/internal/models"
)

func rankFixture() []models.RankItem {
	return []models.RankItem{
		models.UserRank{UserID: 1, Username: "carol", Totals: models.Measures{Requests: 300, Tokens: 9000, QuotaConsumed: 3.5}},
		models.UserRank{UserID: 2, Username: "dave", Totals: models.Measures{Requests: 900, Tokens: 4000, QuotaConsumed: 1.5}},
		models.UserRank{UserID: 3, Totals: models.Measures{Requests: 100, Tokens: 100, QuotaConsumed: 0.5}},
	}
}

func TestToChartSeries(t *testing.T) {
	items := rankFixture()

	cs := ToChartSeries(items, models.MetricTokens, 2)

	if len(cs.Categories) != 2 || len(cs.Values) != 2 {
		t.Fatalf("lengths = %d/%d, want 2/2", len(cs.Categories), len(cs.Values))
	}
	// Server order is preserved even when values are not descending.
	if cs.Categories[0] != "carol" || cs.Categories[1] != "dave" {
		t.Errorf("categories = %v, want server order", cs.Categories)
	}
	if cs.Values[0] != 9000 || cs.Values[1] != 4000 {
		t.Errorf("values = %v, want [9000 4000]", cs.Values)
	}
}

func TestToChartSeries_TopKClamped(t *testing.T) {
	items := rankFixture()

	cs := ToChartSeries(items, models.MetricRequests, 100)
	if len(cs.Values) != len(items) {
		t.Errorf("len = %d, want %d", len(cs.Values), len(items))
	}

	cs = ToChartSeries(items, models.MetricRequests, 0)
	if len(cs.Values) != len(items) {
		t.Errorf("topK 0 should include everything, got %d", len(cs.Values))
	}
}

func TestToChartSeries_LabelFallback(t *testing.T) {
	cs := ToChartSeries(rankFixture(), models.MetricQuota, 3)
	if cs.Categories[2] != "User 3" {
		t.Errorf("fallback label = %q, want User 3", cs.Categories[2])
	}
}

func TestRankColumnsFor(t *testing.T) {
	for _, dim := range models.Dimensions {
		cols := RankColumnsFor(dim)
		if len(cols) != 5 {
			t.Fatalf("%v: %d columns, want 5", dim, len(cols))
		}
		if cols[0].Title != "#" {
			t.Errorf("%v: first column = %q, want #", dim, cols[0].Title)
		}
		if cols[1].Title != dim.String() {
			t.Errorf("%v: identity column = %q, want %q", dim, cols[1].Title, dim.String())
		}
	}
}

func TestRankColumns_Cells(t *testing.T) {
	item := models.UserRank{
		UserID:   1,
		Username: "carol",
		Totals:   models.Measures{Requests: 1234, Tokens: 56_000, QuotaConsumed: 2.5},
	}
	cols := RankColumnsFor(models.DimensionUser)

	want := []string{"3", "carol", "1,234", "56.0K", "2.50"}
	for i, w := range want {
		if got := cols[i].Cell(3, item); got != w {
			t.Errorf("column %q cell = %q, want %q", cols[i].Title, got, w)
		}
	}
}

func TestRankColumns_Values(t *testing.T) {
	item := models.UserRank{Totals: models.Measures{Requests: 10, Tokens: 20, QuotaConsumed: 0.75}}
	cols := RankColumnsFor(models.DimensionUser)

	// Identity columns carry no numeric sort key.
	if cols[0].Value != nil || cols[1].Value != nil {
		t.Error("rank and identity columns should have nil Value")
	}
	if cols[2].Value(item) != 10 {
		t.Errorf("Requests value = %v, want 10", cols[2].Value(item))
	}
	if cols[3].Value(item) != 20 {
		t.Errorf("Tokens value = %v, want 20", cols[3].Value(item))
	}
	if cols[4].Value(item) != 0.75 {
		t.Errorf("Quota value = %v, want 0.75", cols[4].Value(item))
	}
}
