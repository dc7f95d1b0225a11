package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dverley/gatewatch/internal/models"
)

// seriesWire mirrors the /stats/series JSON payload. Bucket instants
// arrive as ISO-8601 strings; request timestamps go out as epoch ms.
type seriesWire struct {
	Data []struct {
		Bucket    string `json:"bucket"`
		Reqs      int64  `json:"reqs"`
		Tokens    int64  `json:"tokens"`
		Users     int64  `json:"users"`
		TokensCnt int64  `json:"tokens_cnt"`
	} `json:"data"`
	TotalPoints int `json:"total_points"`
}

// FetchSeries queries the time-bucketed traffic series for a range at
// the given slot width in seconds.
func (c *Client) FetchSeries(ctx context.Context, r models.TimeRange, slotSec int) (*models.SeriesResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	params := rangeParams(r)
	params.Set("slot_sec", strconv.Itoa(slotSec))

	var wire seriesWire
	if err := c.getJSON(ctx, "/stats/series", params, &wire); err != nil {
		return nil, err
	}

	out := &models.SeriesResponse{
		Points:      make([]models.SeriesPoint, 0, len(wire.Data)),
		TotalPoints: wire.TotalPoints,
	}
	for _, p := range wire.Data {
		bucket, err := parseTimestamp(p.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to decode series bucket: %w", err)
		}
		out.Points = append(out.Points, models.SeriesPoint{
			Bucket:             bucket,
			Requests:           p.Reqs,
			Tokens:             p.Tokens,
			DistinctUsers:      p.Users,
			DistinctTokenKinds: p.TokensCnt,
		})
	}
	return out, nil
}

// Health pings the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var wire struct {
		OK        bool   `json:"ok"`
		Timestamp string `json:"timestamp"`
		Version   string `json:"version"`
	}
	if err := c.getJSON(ctx, "/health", nil, &wire); err != nil {
		return nil, err
	}

	ts, err := parseTimestamp(wire.Timestamp)
	if err != nil {
		// A skewed health timestamp is not worth failing the probe.
		ts = time.Time{}
	}
	return &models.HealthStatus{OK: wire.OK, Timestamp: ts, Version: wire.Version}, nil
}

func rangeParams(r models.TimeRange) url.Values {
	params := url.Values{}
	params.Set("start_ms", strconv.FormatInt(r.StartMS, 10))
	params.Set("end_ms", strconv.FormatInt(r.EndMS, 10))
	return params
}

// parseTimestamp accepts the backend's ISO-8601 variants, with and
// without a zone designator.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
