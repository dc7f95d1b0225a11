package models

import "time"

// QueryContext is the complete, immutable set of inputs for one query
// cycle. It is replaced wholesale when any input changes; nothing
// mutates it in place. This keeps a late response from a superseded
// cycle easy to identify and drop.
type QueryContext struct {
	Range      TimeRange
	Preset     Preset
	Dimension  Dimension
	Metric     Metric
	Rule       Rule
	RuleParams RuleParams
	Limit      int
}

// DefaultQueryLimit is the leaderboard fetch size.
const DefaultQueryLimit = 50

// DefaultQueryContext returns the startup query: last 24 hours, user
// leaderboard by token usage, burst rule with default parameters.
func DefaultQueryContext(now time.Time) QueryContext {
	return QueryContext{
		Range:      PresetLast24Hours.Range(now),
		Preset:     PresetLast24Hours,
		Dimension:  DimensionUser,
		Metric:     MetricTokens,
		Rule:       RuleBurst,
		RuleParams: DefaultRuleParams(),
		Limit:      DefaultQueryLimit,
	}
}

// WithRange returns a copy with a new time range and preset tag.
func (q QueryContext) WithRange(r TimeRange, p Preset) QueryContext {
	q.Range = r
	q.Preset = p
	return q
}

// WithDimension returns a copy with a new leaderboard dimension.
func (q QueryContext) WithDimension(d Dimension) QueryContext {
	q.Dimension = d
	return q
}

// WithMetric returns a copy with a new leaderboard metric.
func (q QueryContext) WithMetric(m Metric) QueryContext {
	q.Metric = m
	return q
}

// WithRule returns a copy with a new anomaly rule.
func (q QueryContext) WithRule(r Rule) QueryContext {
	q.Rule = r
	return q
}

// Granularity returns the derived bucket width for the context range.
func (q QueryContext) Granularity() int {
	return GranularityFor(q.Range)
}
