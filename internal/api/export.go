package api

import (
	"context"
	"fmt"

	"github.com/dverley/gatewatch/internal/models"
)

// ExportKind selects which query a CSV export reproduces.
type ExportKind int

const (
	// ExportSeries exports the time series query.
	ExportSeries ExportKind = iota
	// ExportTop exports the leaderboard query.
	ExportTop
	// ExportAnomalies exports the anomaly query.
	ExportAnomalies
)

// Wire returns the query_type value the backend expects.
func (k ExportKind) Wire() string {
	switch k {
	case ExportSeries:
		return "series"
	case ExportTop:
		return "top"
	case ExportAnomalies:
		return "anomalies"
	default:
		return ""
	}
}

// ExportCSV downloads a CSV rendering of a query. extras must mirror
// the parameters of the query being exported, and nothing else, so the
// export reproduces exactly what is on screen.
func (c *Client) ExportCSV(ctx context.Context, kind ExportKind, r models.TimeRange, extras map[string]string) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if kind.Wire() == "" {
		return nil, fmt.Errorf("unsupported export kind %d", int(kind))
	}

	params := rangeParams(r)
	params.Set("query_type", kind.Wire())
	for key, value := range extras {
		params.Set(key, value)
	}

	return c.get(ctx, "/export/csv", params)
}
