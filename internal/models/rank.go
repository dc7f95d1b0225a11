package models

import "fmt"

// Dimension is the grouping axis for a leaderboard query.
type Dimension int

const (
	// DimensionUser groups by consuming user.
	DimensionUser Dimension = iota
	// DimensionToken groups by API token.
	DimensionToken
	// DimensionModel groups by upstream model.
	DimensionModel
	// DimensionChannel groups by delivery channel.
	DimensionChannel
)

// Dimensions lists the selectable dimensions in display order.
var Dimensions = []Dimension{DimensionUser, DimensionToken, DimensionModel, DimensionChannel}

// String returns the display name for a dimension.
func (d Dimension) String() string {
	switch d {
	case DimensionUser:
		return "User"
	case DimensionToken:
		return "Token"
	case DimensionModel:
		return "Model"
	case DimensionChannel:
		return "Channel"
	default:
		return "Unknown"
	}
}

// Wire returns the query-parameter value the backend expects.
func (d Dimension) Wire() string {
	switch d {
	case DimensionUser:
		return "user"
	case DimensionToken:
		return "token"
	case DimensionModel:
		return "model"
	case DimensionChannel:
		return "channel"
	default:
		return ""
	}
}

// Next cycles to the next dimension.
func (d Dimension) Next() Dimension {
	return Dimension((int(d) + 1) % len(Dimensions))
}

// Metric selects which measure a leaderboard is ranked by.
type Metric int

const (
	// MetricTokens ranks by consumed tokens.
	MetricTokens Metric = iota
	// MetricRequests ranks by request count.
	MetricRequests
	// MetricQuota ranks by consumed quota.
	MetricQuota
)

// Metrics lists the selectable metrics in display order.
var Metrics = []Metric{MetricTokens, MetricRequests, MetricQuota}

// String returns the display name for a metric.
func (m Metric) String() string {
	switch m {
	case MetricTokens:
		return "Tokens"
	case MetricRequests:
		return "Requests"
	case MetricQuota:
		return "Quota"
	default:
		return "Unknown"
	}
}

// Wire returns the query-parameter value the backend expects.
func (m Metric) Wire() string {
	switch m {
	case MetricTokens:
		return "tokens"
	case MetricRequests:
		return "reqs"
	case MetricQuota:
		return "quota_sum"
	default:
		return ""
	}
}

// Next cycles to the next metric.
func (m Metric) Next() Metric {
	return Metric((int(m) + 1) % len(Metrics))
}

// Measures are the three measures every rank entry carries.
type Measures struct {
	Requests      int64
	Tokens        int64
	QuotaConsumed float64
}

// Value returns the measure selected by metric.
func (ms Measures) Value(m Metric) float64 {
	switch m {
	case MetricTokens:
		return float64(ms.Tokens)
	case MetricRequests:
		return float64(ms.Requests)
	case MetricQuota:
		return ms.QuotaConsumed
	default:
		return 0
	}
}

// RankItem is one leaderboard entry. The concrete type matches the
// query dimension; Label synthesizes a fallback when the backend has
// no display name for the entity.
type RankItem interface {
	Dimension() Dimension
	Label() string
	Measures() Measures
}

// UserRank is a per-user leaderboard entry.
type UserRank struct {
	UserID   int64
	Username string
	Totals   Measures
}

// Dimension implements RankItem.
func (u UserRank) Dimension() Dimension { return DimensionUser }

// Label implements RankItem.
func (u UserRank) Label() string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("User %d", u.UserID)
}

// Measures implements RankItem.
func (u UserRank) Measures() Measures { return u.Totals }

// TokenRank is a per-token leaderboard entry.
type TokenRank struct {
	TokenID   int64
	TokenName string
	Totals    Measures
}

// Dimension implements RankItem.
func (t TokenRank) Dimension() Dimension { return DimensionToken }

// Label implements RankItem.
func (t TokenRank) Label() string {
	if t.TokenName != "" {
		return t.TokenName
	}
	return fmt.Sprintf("Token %d", t.TokenID)
}

// Measures implements RankItem.
func (t TokenRank) Measures() Measures { return t.Totals }

// ModelRank is a per-model leaderboard entry.
type ModelRank struct {
	ModelName string
	Totals    Measures
}

// Dimension implements RankItem.
func (m ModelRank) Dimension() Dimension { return DimensionModel }

// Label implements RankItem.
func (m ModelRank) Label() string { return m.ModelName }

// Measures implements RankItem.
func (m ModelRank) Measures() Measures { return m.Totals }

// ChannelRank is a per-channel leaderboard entry.
type ChannelRank struct {
	ChannelID   int64
	ChannelName string
	Totals      Measures
}

// Dimension implements RankItem.
func (c ChannelRank) Dimension() Dimension { return DimensionChannel }

// Label implements RankItem.
func (c ChannelRank) Label() string {
	if c.ChannelName != "" {
		return c.ChannelName
	}
	return fmt.Sprintf("Channel %d", c.ChannelID)
}

// Measures implements RankItem.
func (c ChannelRank) Measures() Measures { return c.Totals }

// RankResponse carries leaderboard entries in server order together
// with the echoed query metadata. Ordering is the server's; clients
// must not re-sort.
type RankResponse struct {
	Items     []RankItem
	Dimension Dimension
	Metric    Metric
	Limit     int
}
