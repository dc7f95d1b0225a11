package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dverley/gatewatch/internal/models"
)

// topItemWire is the superset of the per-dimension leaderboard entry
// shapes. The echoed "by" field selects which identity fields apply.
type topItemWire struct {
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username"`
	TokenID     int64   `json:"token_id"`
	TokenName   string  `json:"token_name"`
	ModelName   string  `json:"model_name"`
	ChannelID   int64   `json:"channel_id"`
	ChannelName string  `json:"channel_name"`
	Reqs        int64   `json:"reqs"`
	Tokens      int64   `json:"tokens"`
	QuotaSum    float64 `json:"quota_sum"`
}

type topWire struct {
	Data   []topItemWire `json:"data"`
	By     string        `json:"by"`
	Metric string        `json:"metric"`
	Limit  int           `json:"limit"`
}

// FetchTop queries the leaderboard for a range, grouped by dim and
// ranked by metric. The response keeps the server's ordering.
func (c *Client) FetchTop(ctx context.Context, r models.TimeRange, dim models.Dimension, metric models.Metric, limit int) (*models.RankResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	params := rangeParams(r)
	params.Set("by", dim.Wire())
	params.Set("metric", metric.Wire())
	params.Set("limit", strconv.Itoa(limit))

	var wire topWire
	if err := c.getJSON(ctx, "/stats/top", params, &wire); err != nil {
		return nil, err
	}

	echoedDim, ok := dimensionFromWire(wire.By)
	if !ok {
		return nil, fmt.Errorf("backend echoed unknown dimension %q", wire.By)
	}
	echoedMetric, ok := metricFromWire(wire.Metric)
	if !ok {
		return nil, fmt.Errorf("backend echoed unknown metric %q", wire.Metric)
	}

	out := &models.RankResponse{
		Items:     make([]models.RankItem, 0, len(wire.Data)),
		Dimension: echoedDim,
		Metric:    echoedMetric,
		Limit:     wire.Limit,
	}
	for _, item := range wire.Data {
		out.Items = append(out.Items, rankItemFromWire(echoedDim, item))
	}
	return out, nil
}

func rankItemFromWire(dim models.Dimension, w topItemWire) models.RankItem {
	measures := models.Measures{Requests: w.Reqs, Tokens: w.Tokens, QuotaConsumed: w.QuotaSum}
	switch dim {
	case models.DimensionUser:
		return models.UserRank{UserID: w.UserID, Username: w.Username, Totals: measures}
	case models.DimensionToken:
		return models.TokenRank{TokenID: w.TokenID, TokenName: w.TokenName, Totals: measures}
	case models.DimensionModel:
		return models.ModelRank{ModelName: w.ModelName, Totals: measures}
	case models.DimensionChannel:
		return models.ChannelRank{ChannelID: w.ChannelID, ChannelName: w.ChannelName, Totals: measures}
	default:
		return nil
	}
}

func dimensionFromWire(s string) (models.Dimension, bool) {
	for _, d := range models.Dimensions {
		if d.Wire() == s {
			return d, true
		}
	}
	return 0, false
}

func metricFromWire(s string) (models.Metric, bool) {
	for _, m := range models.Metrics {
		if m.Wire() == s {
			return m, true
		}
	}
	return 0, false
}
