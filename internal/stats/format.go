package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCount abbreviates large counts: >=1,000,000 renders as one
// decimal with an "M" suffix, >=1,000 as one decimal with "K", smaller
// values verbatim.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatGrouped renders an integer with comma thousands grouping.
func FormatGrouped(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatQuota renders quota consumption with two decimals.
func FormatQuota(q float64) string {
	return fmt.Sprintf("%.2f", q)
}
