package stats

import (
	"time"

	"github.com/dverley/gatewatch/internal/models"
)

// ValueField selects which series measure feeds the heatmap.
type ValueField int

const (
	// FieldRequests maps request counts.
	FieldRequests ValueField = iota
	// FieldTokens maps token counts.
	FieldTokens
	// FieldUsers maps distinct user counts.
	FieldUsers
)

// ValueFields lists the selectable heatmap fields in display order.
var ValueFields = []ValueField{FieldRequests, FieldTokens, FieldUsers}

// String returns the display name for a value field.
func (f ValueField) String() string {
	switch f {
	case FieldRequests:
		return "Requests"
	case FieldTokens:
		return "Tokens"
	case FieldUsers:
		return "Users"
	default:
		return "Unknown"
	}
}

// Next cycles to the next value field.
func (f ValueField) Next() ValueField {
	return ValueField((int(f) + 1) % len(ValueFields))
}

func (f ValueField) valueOf(p models.SeriesPoint) float64 {
	switch f {
	case FieldRequests:
		return float64(p.Requests)
	case FieldTokens:
		return float64(p.Tokens)
	case FieldUsers:
		return float64(p.DistinctUsers)
	default:
		return 0
	}
}

// HeatmapDays and HeatmapHours are the fixed axis label sequences.
// Day index 0 is Sunday, matching time.Weekday, and cell placement
// uses the same indexing so labels and cells can never disagree.
var (
	HeatmapDays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

	HeatmapHours = []string{
		"00", "01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11",
		"12", "13", "14", "15", "16", "17", "18", "19", "20", "21", "22", "23",
	}
)

// Heatmap is a dense 7x24 matrix of values keyed by (weekday, hour).
// Cells with no contributing bucket stay zero.
type Heatmap struct {
	Cells [7][24]float64
	Field ValueField
}

// ToHeatmap reshapes a flat series into an hour-by-weekday matrix.
// Bucket instants are interpreted in UTC, the fixed reference zone.
// When a range spans more than one week, several buckets land on the
// same (weekday, hour) cell; their values are summed. (The previous
// behavior of keeping only the last bucket made multi-week heatmaps
// depend on bucket order.)
func ToHeatmap(points []models.SeriesPoint, field ValueField) Heatmap {
	h := Heatmap{Field: field}
	for _, p := range points {
		bucket := p.Bucket.In(time.UTC)
		day := int(bucket.Weekday())
		hour := bucket.Hour()
		h.Cells[day][hour] += field.valueOf(p)
	}
	return h
}

// Max returns the largest cell value, for color scaling.
func (h Heatmap) Max() float64 {
	maxVal := 0.0
	for day := range h.Cells {
		for hour := range h.Cells[day] {
			if h.Cells[day][hour] > maxVal {
				maxVal = h.Cells[day][hour]
			}
		}
	}
	return maxVal
}
