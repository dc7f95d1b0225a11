package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dverley/gatewatch/internal/models"
)

func testRange() models.TimeRange {
	return models.TimeRange{StartMS: 1_700_000_000_000, EndMS: 1_700_086_400_000}
}

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8080/api/", time.Second)
	if c.BaseURL() != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", c.BaseURL())
	}
	if c.Timeout() != time.Second {
		t.Errorf("Timeout = %v, want 1s", c.Timeout())
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := NewClient("http://localhost:8080/api", 0)
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout = %v, want default", c.Timeout())
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "start_ms must be before end_ms", "code": 400}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.FetchSeries(context.Background(), testRange(), 300)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	// The backend's own message is shown verbatim.
	if apiErr.Message != "start_ms must be before end_ms" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != 400 {
		t.Errorf("Status/Code = %d/%d", apiErr.Status, apiErr.Code)
	}
}

func TestClient_ErrorFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nginx</html>"))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	_, err := c.FetchSeries(context.Background(), testRange(), 300)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(apiErr.Message, "HTTP 502") {
		t.Errorf("fallback message = %q", apiErr.Message)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	if _, err := c.FetchSeries(context.Background(), testRange(), 300); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_InvalidRange(t *testing.T) {
	c := NewClient("http://localhost:1", time.Second)
	bad := models.TimeRange{StartMS: 2, EndMS: 1}

	// An inverted range never reaches the network.
	if _, err := c.FetchSeries(context.Background(), bad, 300); err == nil {
		t.Error("FetchSeries should reject inverted range")
	}
	if _, err := c.FetchTop(context.Background(), bad, models.DimensionUser, models.MetricTokens, 10); err == nil {
		t.Error("FetchTop should reject inverted range")
	}
	if _, err := c.FetchAnomalies(context.Background(), bad, models.RuleBurst, models.DefaultRuleParams()); err == nil {
		t.Error("FetchAnomalies should reject inverted range")
	}
	if _, err := c.ExportCSV(context.Background(), ExportSeries, bad, nil); err == nil {
		t.Error("ExportCSV should reject inverted range")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2026-08-20T10:15:30Z", time.Date(2026, 8, 20, 10, 15, 30, 0, time.UTC)},
		{"rfc3339 nano", "2026-08-20T10:15:30.5Z", time.Date(2026, 8, 20, 10, 15, 30, 500_000_000, time.UTC)},
		{"no zone", "2026-08-20T10:15:30", time.Date(2026, 8, 20, 10, 15, 30, 0, time.UTC)},
		{"space separated", "2026-08-20 10:15:30", time.Date(2026, 8, 20, 10, 15, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("parseTimestamp(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := parseTimestamp("20/08/2026"); err == nil {
		t.Error("expected error for unrecognized format")
	}
}
