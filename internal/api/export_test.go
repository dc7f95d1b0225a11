package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestExportKind_Wire(t *testing.T) {
	tests := []struct {
		kind ExportKind
		want string
	}{
		{ExportSeries, "series"},
		{ExportTop, "top"},
		{ExportAnomalies, "anomalies"},
	}

	for _, tt := range tests {
		if got := tt.kind.Wire(); got != tt.want {
			t.Errorf("Wire() = %q, want %q", got, tt.want)
		}
	}
}

func TestExportCSV(t *testing.T) {
	var gotQuery url.Values

	csv := "bucket,reqs,tokens\n2026-08-20T10:00:00,42,9000\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/csv" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second)
	data, err := c.ExportCSV(context.Background(), ExportTop, testRange(), map[string]string{
		"by":     "user",
		"metric": "tokens",
	})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	if string(data) != csv {
		t.Errorf("body = %q", data)
	}

	// The request carries exactly the range, query_type, and extras.
	want := map[string]string{
		"start_ms":   "1700000000000",
		"end_ms":     "1700086400000",
		"query_type": "top",
		"by":         "user",
		"metric":     "tokens",
	}
	if len(gotQuery) != len(want) {
		t.Errorf("query = %v, want exactly %v", gotQuery, want)
	}
	for k, v := range want {
		if gotQuery.Get(k) != v {
			t.Errorf("%s = %q, want %q", k, gotQuery.Get(k), v)
		}
	}
}

func TestExportCSV_UnsupportedKind(t *testing.T) {
	c := NewClient("http://localhost:1", time.Second)
	if _, err := c.ExportCSV(context.Background(), ExportKind(99), testRange(), nil); err == nil {
		t.Error("expected error for unsupported kind")
	}
}
