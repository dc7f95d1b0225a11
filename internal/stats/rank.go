package stats

import "github.com/dverley/gatewatch/internal/models"

// DefaultChartTopK is how many leaderboard entries the bar chart shows.
// The table below it shows the full fetched list.
const DefaultChartTopK = 20

// ChartSeries is a category/value pairing ready for bar-chart
// rendering. Index i of Categories labels index i of Values.
type ChartSeries struct {
	Categories []string
	Values     []float64
}

// ToChartSeries projects the first topK leaderboard entries onto
// chart categories and values. Input order is preserved exactly: the
// backend ranks, the client renders. Labels fall back to synthesized
// identity labels when the backend has no display name.
func ToChartSeries(items []models.RankItem, metric models.Metric, topK int) ChartSeries {
	if topK <= 0 || topK > len(items) {
		topK = len(items)
	}

	cs := ChartSeries{
		Categories: make([]string, 0, topK),
		Values:     make([]float64, 0, topK),
	}
	for _, item := range items[:topK] {
		cs.Categories = append(cs.Categories, item.Label())
		cs.Values = append(cs.Values, item.Measures().Value(metric))
	}
	return cs
}

// RankColumn describes one leaderboard table column. Value extracts
// the raw numeric sort key; identity columns have no Value and sort
// lexically. Cell renders the display string.
type RankColumn struct {
	Title string
	Width int
	Cell  func(rank int, item models.RankItem) string
	Value func(item models.RankItem) float64
}

// RankColumnsFor builds the column spec for a dimension: a rank
// index column, the dimension's identity column, and the three fixed
// measure columns. Measure columns sort by raw value, never by the
// formatted string.
func RankColumnsFor(dim models.Dimension) []RankColumn {
	cols := []RankColumn{
		{
			Title: "#",
			Width: 4,
			Cell: func(rank int, _ models.RankItem) string {
				return FormatGrouped(int64(rank))
			},
		},
		{
			Title: dim.String(),
			Width: 28,
			Cell: func(_ int, item models.RankItem) string {
				return item.Label()
			},
		},
		{
			Title: "Requests",
			Width: 12,
			Cell: func(_ int, item models.RankItem) string {
				return FormatGrouped(item.Measures().Requests)
			},
			Value: func(item models.RankItem) float64 {
				return float64(item.Measures().Requests)
			},
		},
		{
			Title: "Tokens",
			Width: 12,
			Cell: func(_ int, item models.RankItem) string {
				return FormatCount(item.Measures().Tokens)
			},
			Value: func(item models.RankItem) float64 {
				return float64(item.Measures().Tokens)
			},
		},
		{
			Title: "Quota",
			Width: 12,
			Cell: func(_ int, item models.RankItem) string {
				return FormatQuota(item.Measures().QuotaConsumed)
			},
			Value: func(item models.RankItem) float64 {
				return item.Measures().QuotaConsumed
			},
		},
	}
	return cols
}
