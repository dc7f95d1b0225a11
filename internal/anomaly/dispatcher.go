// Package anomaly maps each detection rule to its table columns,
// detail fields, and export parameters.
package anomaly

import (
	"fmt"

	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
)

// Column describes one anomaly table column for a rule.
type Column struct {
	Title string
	Width int
	Cell  func(rec models.AnomalyRecord) string
}

// Field is one label/value pair in the record detail view.
type Field struct {
	Label string
	Value func(rec models.AnomalyRecord) string
}

// Formatting policy: tables pack derived statistics to whole numbers
// for density, the detail view shows them with two decimals. Counts
// are grouped integers everywhere.
const (
	tableTimeFormat  = "15:04:05"
	detailTimeFormat = "2006-01-02 15:04:05"
)

func statTable(v float64) string  { return fmt.Sprintf("%.0f", v) }
func statDetail(v float64) string { return fmt.Sprintf("%.2f", v) }

// ColumnsFor returns the table column spec for a rule. Every field a
// rule's record carries appears as a column; the switch is exhaustive
// over the rule set.
func ColumnsFor(rule models.Rule) []Column {
	switch rule {
	case models.RuleBurst:
		return burstColumns()
	case models.RuleSharedToken:
		return sharedTokenColumns()
	case models.RuleSharedIP:
		return sharedIPColumns()
	case models.RuleBigRequest:
		return bigRequestColumns()
	default:
		return nil
	}
}

// DetailFieldsFor returns the detail view spec for a rule, covering
// every field of the rule's record shape.
func DetailFieldsFor(rule models.Rule) []Field {
	switch rule {
	case models.RuleBurst:
		return burstFields()
	case models.RuleSharedToken:
		return sharedTokenFields()
	case models.RuleSharedIP:
		return sharedIPFields()
	case models.RuleBigRequest:
		return bigRequestFields()
	default:
		return nil
	}
}

// EmptyMessageFor returns the table placeholder when a rule reports
// no findings.
func EmptyMessageFor(rule models.Rule) string {
	switch rule {
	case models.RuleBurst:
		return "No burst anomalies detected"
	case models.RuleSharedToken:
		return "No shared-token anomalies detected"
	case models.RuleSharedIP:
		return "No shared-IP anomalies detected"
	case models.RuleBigRequest:
		return "No oversized-request anomalies detected"
	default:
		return "No anomalies detected"
	}
}

// ExportParams returns the query parameters the CSV export endpoint
// needs to reproduce the rule's on-screen result.
func ExportParams(rule models.Rule, params models.RuleParams) map[string]string {
	out := map[string]string{"rule": rule.Wire()}
	switch rule {
	case models.RuleBurst:
		out["window_sec"] = fmt.Sprintf("%d", params.WindowSec)
		out["limit_per_token"] = fmt.Sprintf("%d", params.LimitPerToken)
	case models.RuleSharedToken, models.RuleSharedIP:
		out["users_threshold"] = fmt.Sprintf("%d", params.UsersThreshold)
	case models.RuleBigRequest:
		out["sigma"] = fmt.Sprintf("%g", params.Sigma)
	}
	return out
}

func burstColumns() []Column {
	return []Column{
		{Title: "Token", Width: 22, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return r.Token.Label()
			}
			return ""
		}},
		{Title: "Requests", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return stats.FormatGrouped(r.RequestCount)
			}
			return ""
		}},
		{Title: "Window", Width: 8, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return fmt.Sprintf("%ds", r.WindowSec)
			}
			return ""
		}},
		{Title: "Threshold", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return statTable(r.Threshold)
			}
			return ""
		}},
		{Title: "First Seen", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return r.FirstSeen.Format(tableTimeFormat)
			}
			return ""
		}},
		{Title: "Last Seen", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BurstRecord); ok {
				return r.LastSeen.Format(tableTimeFormat)
			}
			return ""
		}},
	}
}

func burstFields() []Field {
	return []Field{
		{Label: "Token ID", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%d", rec.(models.BurstRecord).Token.ID)
		}},
		{Label: "Token Name", Value: func(rec models.AnomalyRecord) string {
			return orUnknown(rec.(models.BurstRecord).Token.Name)
		}},
		{Label: "Request Count", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.BurstRecord).RequestCount)
		}},
		{Label: "Window", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%d seconds", rec.(models.BurstRecord).WindowSec)
		}},
		{Label: "Threshold", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.BurstRecord).Threshold)
		}},
		{Label: "First Request", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.BurstRecord).FirstSeen.Format(detailTimeFormat)
		}},
		{Label: "Last Request", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.BurstRecord).LastSeen.Format(detailTimeFormat)
		}},
	}
}

func sharedTokenColumns() []Column {
	return []Column{
		{Title: "Token", Width: 22, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedTokenRecord); ok {
				return r.Token.Label()
			}
			return ""
		}},
		{Title: "Users", Width: 8, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedTokenRecord); ok {
				return stats.FormatGrouped(r.UserCount)
			}
			return ""
		}},
		{Title: "Threshold", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedTokenRecord); ok {
				return statTable(r.Threshold)
			}
			return ""
		}},
		{Title: "User List", Width: 26, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedTokenRecord); ok {
				return r.Users
			}
			return ""
		}},
		{Title: "Requests", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedTokenRecord); ok {
				return stats.FormatGrouped(r.TotalRequests)
			}
			return ""
		}},
	}
}

func sharedTokenFields() []Field {
	return []Field{
		{Label: "Token ID", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%d", rec.(models.SharedTokenRecord).Token.ID)
		}},
		{Label: "Token Name", Value: func(rec models.AnomalyRecord) string {
			return orUnknown(rec.(models.SharedTokenRecord).Token.Name)
		}},
		{Label: "User Count", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.SharedTokenRecord).UserCount)
		}},
		{Label: "Threshold", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.SharedTokenRecord).Threshold)
		}},
		{Label: "Total Requests", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.SharedTokenRecord).TotalRequests)
		}},
		{Label: "User List", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.SharedTokenRecord).Users
		}},
	}
}

func sharedIPColumns() []Column {
	return []Column{
		{Title: "IP Address", Width: 18, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedIPRecord); ok {
				return r.IP
			}
			return ""
		}},
		{Title: "Users", Width: 8, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedIPRecord); ok {
				return stats.FormatGrouped(r.UserCount)
			}
			return ""
		}},
		{Title: "Threshold", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedIPRecord); ok {
				return statTable(r.Threshold)
			}
			return ""
		}},
		{Title: "User List", Width: 26, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedIPRecord); ok {
				return r.Users
			}
			return ""
		}},
		{Title: "Requests", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.SharedIPRecord); ok {
				return stats.FormatGrouped(r.TotalRequests)
			}
			return ""
		}},
	}
}

func sharedIPFields() []Field {
	return []Field{
		{Label: "IP Address", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.SharedIPRecord).IP
		}},
		{Label: "User Count", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.SharedIPRecord).UserCount)
		}},
		{Label: "Threshold", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.SharedIPRecord).Threshold)
		}},
		{Label: "Total Requests", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.SharedIPRecord).TotalRequests)
		}},
		{Label: "User List", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.SharedIPRecord).Users
		}},
	}
}

func bigRequestColumns() []Column {
	return []Column{
		{Title: "Token", Width: 18, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return r.Token.Label()
			}
			return ""
		}},
		{Title: "User", Width: 16, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return r.User.Label()
			}
			return ""
		}},
		{Title: "Tokens", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return stats.FormatGrouped(r.TokenCount)
			}
			return ""
		}},
		{Title: "Mean", Width: 8, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return statTable(r.MeanTokens)
			}
			return ""
		}},
		{Title: "StdDev", Width: 8, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return statTable(r.StdDevTokens)
			}
			return ""
		}},
		{Title: "Threshold", Width: 10, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return statTable(r.Threshold)
			}
			return ""
		}},
		{Title: "Sigma", Width: 6, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return fmt.Sprintf("%g", r.SigmaMultiplier)
			}
			return ""
		}},
		{Title: "Time", Width: 12, Cell: func(rec models.AnomalyRecord) string {
			if r, ok := rec.(models.BigRequestRecord); ok {
				return r.OccurredAt.Format("01-02 15:04")
			}
			return ""
		}},
	}
}

func bigRequestFields() []Field {
	return []Field{
		{Label: "Token ID", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%d", rec.(models.BigRequestRecord).Token.ID)
		}},
		{Label: "Token Name", Value: func(rec models.AnomalyRecord) string {
			return orUnknown(rec.(models.BigRequestRecord).Token.Name)
		}},
		{Label: "User ID", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%d", rec.(models.BigRequestRecord).User.ID)
		}},
		{Label: "Username", Value: func(rec models.AnomalyRecord) string {
			return orUnknown(rec.(models.BigRequestRecord).User.Name)
		}},
		{Label: "Token Count", Value: func(rec models.AnomalyRecord) string {
			return stats.FormatGrouped(rec.(models.BigRequestRecord).TokenCount)
		}},
		{Label: "Request Time", Value: func(rec models.AnomalyRecord) string {
			return rec.(models.BigRequestRecord).OccurredAt.Format(detailTimeFormat)
		}},
		{Label: "Mean Tokens", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.BigRequestRecord).MeanTokens)
		}},
		{Label: "Std Deviation", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.BigRequestRecord).StdDevTokens)
		}},
		{Label: "Threshold", Value: func(rec models.AnomalyRecord) string {
			return statDetail(rec.(models.BigRequestRecord).Threshold)
		}},
		{Label: "Sigma Multiplier", Value: func(rec models.AnomalyRecord) string {
			return fmt.Sprintf("%g", rec.(models.BigRequestRecord).SigmaMultiplier)
		}},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
