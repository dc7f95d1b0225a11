// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// TimeRange is a half-open query window in epoch milliseconds.
type TimeRange struct {
	StartMS int64
	EndMS   int64
}

// NewTimeRange builds a validated range from explicit endpoints.
func NewTimeRange(startMS, endMS int64) (TimeRange, error) {
	r := TimeRange{StartMS: startMS, EndMS: endMS}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// Validate rejects inverted ranges. Callers must not swap endpoints
// silently; an inverted range is a user input error.
func (r TimeRange) Validate() error {
	if r.StartMS > r.EndMS {
		return fmt.Errorf("invalid time range: start %d after end %d", r.StartMS, r.EndMS)
	}
	return nil
}

// Span returns the covered duration.
func (r TimeRange) Span() time.Duration {
	return time.Duration(r.EndMS-r.StartMS) * time.Millisecond
}

// Start returns the start instant in UTC.
func (r TimeRange) Start() time.Time {
	return time.UnixMilli(r.StartMS).UTC()
}

// End returns the end instant in UTC.
func (r TimeRange) End() time.Time {
	return time.UnixMilli(r.EndMS).UTC()
}

// Preset identifies a named relative time range.
type Preset int

const (
	// PresetNone means the range was chosen explicitly.
	PresetNone Preset = iota
	// PresetLastHour covers the last 1 hour.
	PresetLastHour
	// PresetLast6Hours covers the last 6 hours.
	PresetLast6Hours
	// PresetLast24Hours covers the last 24 hours.
	PresetLast24Hours
	// PresetLast7Days covers the last 7 days.
	PresetLast7Days
	// PresetLast30Days covers the last 30 days.
	PresetLast30Days
)

// Presets lists the selectable presets in display order.
var Presets = []Preset{
	PresetLastHour,
	PresetLast6Hours,
	PresetLast24Hours,
	PresetLast7Days,
	PresetLast30Days,
}

// String returns the display name for a preset.
func (p Preset) String() string {
	switch p {
	case PresetLastHour:
		return "Last 1 hour"
	case PresetLast6Hours:
		return "Last 6 hours"
	case PresetLast24Hours:
		return "Last 24 hours"
	case PresetLast7Days:
		return "Last 7 days"
	case PresetLast30Days:
		return "Last 30 days"
	case PresetNone:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Duration returns the length of the preset window.
func (p Preset) Duration() time.Duration {
	switch p {
	case PresetLastHour:
		return time.Hour
	case PresetLast6Hours:
		return 6 * time.Hour
	case PresetLast24Hours:
		return 24 * time.Hour
	case PresetLast7Days:
		return 7 * 24 * time.Hour
	case PresetLast30Days:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Range resolves the preset against the given clock instant.
func (p Preset) Range(now time.Time) TimeRange {
	end := now.UnixMilli()
	return TimeRange{StartMS: end - p.Duration().Milliseconds(), EndMS: end}
}

// Next cycles to the next preset in display order.
func (p Preset) Next() Preset {
	for i, candidate := range Presets {
		if candidate == p {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return Presets[0]
}

// presetMatchToleranceMS is the combined endpoint drift allowed when
// matching a range back to a preset. "Now" moves between the moment a
// preset range was computed and the moment it is compared.
const presetMatchToleranceMS = 60_000

// MatchPreset returns the preset whose freshly computed range differs
// from r by no more than 60s summed over both endpoints, or PresetNone.
func MatchPreset(r TimeRange, now time.Time) Preset {
	for _, p := range Presets {
		fresh := p.Range(now)
		drift := absInt64(fresh.StartMS-r.StartMS) + absInt64(fresh.EndMS-r.EndMS)
		if drift <= presetMatchToleranceMS {
			return p
		}
	}
	return PresetNone
}

// GranularityFor derives the sampling bucket width in seconds from the
// span of a range. Pure: the same range always yields the same width.
func GranularityFor(r TimeRange) int {
	hours := r.Span().Hours()
	switch {
	case hours <= 6:
		return 300
	case hours <= 24:
		return 900
	case hours <= 168:
		return 3600
	default:
		return 14400
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
