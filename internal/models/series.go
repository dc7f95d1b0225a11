package models

import "time"

// SeriesPoint is one fixed-width time bucket of gateway traffic.
// Requests and Tokens are additive counters; DistinctUsers and
// DistinctTokenKinds are per-bucket gauges and must not be summed
// across buckets.
type SeriesPoint struct {
	Bucket             time.Time
	Requests           int64
	Tokens             int64
	DistinctUsers      int64
	DistinctTokenKinds int64
}

// SeriesResponse is an ordered sequence of buckets covering a query
// range, one point per granularity slot, gaps zero-filled.
type SeriesResponse struct {
	Points      []SeriesPoint
	TotalPoints int
}

// HealthStatus is the backend health report.
type HealthStatus struct {
	OK        bool
	Timestamp time.Time
	Version   string
}
