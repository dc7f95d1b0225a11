// Package stats turns raw query payloads into render-ready aggregates.
package stats

import "github.com/dverley/gatewatch/internal/models"

// KPITotals are the four headline figures for a series window.
type KPITotals struct {
	TotalRequests  int64
	TotalTokens    int64
	PeakUsers      int64
	PeakTokenKinds int64
}

// AggregateKPIs reduces a series into headline figures. Requests and
// tokens are summed across buckets. Distinct users and token kinds are
// gauges: the same user appears in many buckets, so the peak single
// bucket is reported instead of a sum. An empty series yields zeros.
func AggregateKPIs(points []models.SeriesPoint) KPITotals {
	var k KPITotals
	for _, p := range points {
		k.TotalRequests += p.Requests
		k.TotalTokens += p.Tokens
		if p.DistinctUsers > k.PeakUsers {
			k.PeakUsers = p.DistinctUsers
		}
		if p.DistinctTokenKinds > k.PeakTokenKinds {
			k.PeakTokenKinds = p.DistinctTokenKinds
		}
	}
	return k
}
