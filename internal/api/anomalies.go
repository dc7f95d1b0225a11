package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dverley/gatewatch/internal/models"
)

// anomalyItemWire is the superset of the four rule record shapes; the
// echoed rule selects which fields are populated.
type anomalyItemWire struct {
	TokenID       int64   `json:"token_id"`
	TokenName     string  `json:"token_name"`
	RequestCount  int64   `json:"request_count"`
	WindowSec     int     `json:"window_sec"`
	Threshold     float64 `json:"threshold"`
	FirstRequest  string  `json:"first_request"`
	LastRequest   string  `json:"last_request"`
	UserCount     int64   `json:"user_count"`
	Users         string  `json:"users"`
	TotalRequests int64   `json:"total_requests"`
	IP            string  `json:"ip"`
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	TokenCount    int64   `json:"token_count"`
	CreatedAt     string  `json:"created_at"`
	MeanTokens    float64 `json:"mean_tokens"`
	StdTokens     float64 `json:"std_tokens"`
	Sigma         float64 `json:"sigma"`
}

type anomalyWire struct {
	Data       []anomalyItemWire `json:"data"`
	Rule       string            `json:"rule"`
	TotalCount int               `json:"total_count"`
}

// FetchAnomalies queries one detection rule for a range. Only the
// parameters the selected rule consumes are serialized.
func (c *Client) FetchAnomalies(ctx context.Context, r models.TimeRange, rule models.Rule, params models.RuleParams) (*models.AnomalyResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	query := rangeParams(r)
	query.Set("rule", rule.Wire())
	switch rule {
	case models.RuleBurst:
		query.Set("window_sec", strconv.Itoa(params.WindowSec))
		query.Set("limit_per_token", strconv.Itoa(params.LimitPerToken))
	case models.RuleSharedToken, models.RuleSharedIP:
		query.Set("users_threshold", strconv.Itoa(params.UsersThreshold))
	case models.RuleBigRequest:
		query.Set("sigma", strconv.FormatFloat(params.Sigma, 'g', -1, 64))
	}

	var wire anomalyWire
	if err := c.getJSON(ctx, "/stats/anomalies", query, &wire); err != nil {
		return nil, err
	}

	echoedRule, ok := models.RuleFromWire(wire.Rule)
	if !ok {
		return nil, fmt.Errorf("backend echoed unknown rule %q", wire.Rule)
	}
	if echoedRule != rule {
		return nil, fmt.Errorf("backend echoed rule %q for a %q query", wire.Rule, rule.Wire())
	}

	out := &models.AnomalyResponse{
		Records:    make([]models.AnomalyRecord, 0, len(wire.Data)),
		Rule:       echoedRule,
		TotalCount: wire.TotalCount,
	}
	for _, item := range wire.Data {
		rec, err := anomalyRecordFromWire(echoedRule, item)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func anomalyRecordFromWire(rule models.Rule, w anomalyItemWire) (models.AnomalyRecord, error) {
	switch rule {
	case models.RuleBurst:
		first, err := parseTimestamp(w.FirstRequest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode burst first_request: %w", err)
		}
		last, err := parseTimestamp(w.LastRequest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode burst last_request: %w", err)
		}
		return models.BurstRecord{
			Token:        models.TokenRef{ID: w.TokenID, Name: w.TokenName},
			RequestCount: w.RequestCount,
			WindowSec:    w.WindowSec,
			Threshold:    w.Threshold,
			FirstSeen:    first,
			LastSeen:     last,
		}, nil

	case models.RuleSharedToken:
		return models.SharedTokenRecord{
			Token:         models.TokenRef{ID: w.TokenID, Name: w.TokenName},
			UserCount:     w.UserCount,
			Threshold:     w.Threshold,
			Users:         w.Users,
			TotalRequests: w.TotalRequests,
		}, nil

	case models.RuleSharedIP:
		return models.SharedIPRecord{
			IP:            w.IP,
			UserCount:     w.UserCount,
			Threshold:     w.Threshold,
			Users:         w.Users,
			TotalRequests: w.TotalRequests,
		}, nil

	case models.RuleBigRequest:
		occurred, err := parseTimestamp(w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to decode big_request created_at: %w", err)
		}
		return models.BigRequestRecord{
			Token:           models.TokenRef{ID: w.TokenID, Name: w.TokenName},
			User:            models.UserRef{ID: w.UserID, Name: w.Username},
			TokenCount:      w.TokenCount,
			OccurredAt:      occurred,
			MeanTokens:      w.MeanTokens,
			StdDevTokens:    w.StdTokens,
			Threshold:       w.Threshold,
			SigmaMultiplier: w.Sigma,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported rule %v", rule)
	}
}
