package info

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/config"
	"github.com/dverley/gatewatch/internal/models"
)

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()

	state := app.NewState()
	cfg := &config.Config{
		APIBaseURL:            "http://metrics.internal:9090/api",
		RequestTimeout:        30 * time.Second,
		HealthPollInterval:    time.Minute,
		SeriesRefreshInterval: 2 * time.Minute,
		ExportDir:             t.TempDir(),
	}
	m := New(state, cfg)
	m.SetSize(100, 60)
	return m, state
}

func TestNew(t *testing.T) {
	m, _ := newTestModel(t)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("info tab needs no init command")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{
		"Info",
		"Backend",
		"Configuration",
		"About gatewatch",
		"http://metrics.internal:9090/api",
		"not probed yet",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewHealthy(t *testing.T) {
	m, state := newTestModel(t)

	state.SetHealth(&models.HealthStatus{
		OK:        true,
		Version:   "0.9.1",
		Timestamp: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
	}, nil)

	view := m.View()
	if !strings.Contains(view, "healthy") {
		t.Error("view should report a healthy backend")
	}
	if !strings.Contains(view, "0.9.1") {
		t.Error("view should show the backend version")
	}
}

func TestModel_ViewUnreachable(t *testing.T) {
	m, state := newTestModel(t)

	state.SetHealth(nil, errors.New("connection refused"))

	view := m.View()
	if !strings.Contains(view, "unreachable") {
		t.Error("view should report an unreachable backend")
	}
	if !strings.Contains(view, "connection refused") {
		t.Error("view should include the probe error")
	}
}

func TestModel_ViewUnhealthy(t *testing.T) {
	m, state := newTestModel(t)

	state.SetHealth(&models.HealthStatus{OK: false}, nil)

	if !strings.Contains(m.View(), "unhealthy") {
		t.Error("view should report an unhealthy backend")
	}
}

func TestModel_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(100, 60)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("view should handle a missing configuration")
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
