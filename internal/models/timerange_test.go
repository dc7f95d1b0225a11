package models

import (
	"testing"
	"time"
)

func TestNewTimeRange(t *testing.T) {
	r, err := NewTimeRange(1000, 2000)
	if err != nil {
		t.Fatalf("NewTimeRange failed: %v", err)
	}
	if r.StartMS != 1000 || r.EndMS != 2000 {
		t.Errorf("range = %+v, want {1000 2000}", r)
	}

	if _, err := NewTimeRange(2000, 1000); err == nil {
		t.Error("NewTimeRange should reject inverted range")
	}
}

func TestTimeRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       TimeRange
		wantErr bool
	}{
		{"valid", TimeRange{StartMS: 0, EndMS: 100}, false},
		{"empty", TimeRange{StartMS: 100, EndMS: 100}, false},
		{"inverted", TimeRange{StartMS: 200, EndMS: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeRange_Span(t *testing.T) {
	r := TimeRange{StartMS: 0, EndMS: 3_600_000}
	if r.Span() != time.Hour {
		t.Errorf("Span = %v, want 1h", r.Span())
	}
}

func TestTimeRange_Endpoints(t *testing.T) {
	r := TimeRange{StartMS: 1_700_000_000_000, EndMS: 1_700_003_600_000}
	if r.Start().Location() != time.UTC {
		t.Error("Start should be UTC")
	}
	if !r.End().Equal(r.Start().Add(time.Hour)) {
		t.Errorf("End = %v, want Start+1h", r.End())
	}
}

func TestPreset_Range(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	r := PresetLast24Hours.Range(now)
	if r.EndMS != now.UnixMilli() {
		t.Errorf("EndMS = %d, want %d", r.EndMS, now.UnixMilli())
	}
	if r.Span() != 24*time.Hour {
		t.Errorf("Span = %v, want 24h", r.Span())
	}
}

func TestPreset_Duration(t *testing.T) {
	tests := []struct {
		preset Preset
		want   time.Duration
	}{
		{PresetLastHour, time.Hour},
		{PresetLast6Hours, 6 * time.Hour},
		{PresetLast24Hours, 24 * time.Hour},
		{PresetLast7Days, 7 * 24 * time.Hour},
		{PresetLast30Days, 30 * 24 * time.Hour},
		{PresetNone, 0},
	}

	for _, tt := range tests {
		if got := tt.preset.Duration(); got != tt.want {
			t.Errorf("%v.Duration() = %v, want %v", tt.preset, got, tt.want)
		}
	}
}

func TestPreset_Next(t *testing.T) {
	// Cycling through all presets lands back on the first.
	p := Presets[0]
	for range Presets {
		p = p.Next()
	}
	if p != Presets[0] {
		t.Errorf("cycle ended on %v, want %v", p, Presets[0])
	}

	// A custom range falls back to the first preset.
	if got := PresetNone.Next(); got != Presets[0] {
		t.Errorf("PresetNone.Next() = %v, want %v", got, Presets[0])
	}
}

func TestMatchPreset(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// An exact preset range matches.
	if got := MatchPreset(PresetLast7Days.Range(now), now); got != PresetLast7Days {
		t.Errorf("MatchPreset = %v, want Last7Days", got)
	}

	// A range computed slightly earlier still matches.
	stale := PresetLastHour.Range(now.Add(-20 * time.Second))
	if got := MatchPreset(stale, now); got != PresetLastHour {
		t.Errorf("MatchPreset(stale) = %v, want LastHour", got)
	}

	// Drift beyond the tolerance does not match.
	old := PresetLastHour.Range(now.Add(-5 * time.Minute))
	if got := MatchPreset(old, now); got != PresetNone {
		t.Errorf("MatchPreset(old) = %v, want PresetNone", got)
	}

	// An arbitrary custom range never matches.
	custom := TimeRange{StartMS: 0, EndMS: 1_000_000}
	if got := MatchPreset(custom, now); got != PresetNone {
		t.Errorf("MatchPreset(custom) = %v, want PresetNone", got)
	}
}

func TestGranularityFor(t *testing.T) {
	hour := int64(3_600_000)

	tests := []struct {
		name  string
		hours int64
		want  int
	}{
		{"one hour", 1, 300},
		{"six hours", 6, 300},
		{"just over six hours", 7, 900},
		{"one day", 24, 900},
		{"one week", 168, 3600},
		{"over a week", 169, 14400},
		{"thirty days", 720, 14400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TimeRange{StartMS: 0, EndMS: tt.hours * hour}
			if got := GranularityFor(r); got != tt.want {
				t.Errorf("GranularityFor(%dh) = %d, want %d", tt.hours, got, tt.want)
			}
		})
	}
}

func TestPreset_String(t *testing.T) {
	if PresetNone.String() != "Custom" {
		t.Errorf("PresetNone = %q, want Custom", PresetNone.String())
	}
	for _, p := range Presets {
		if p.String() == "Unknown" || p.String() == "" {
			t.Errorf("preset %d has no display name", p)
		}
	}
}
