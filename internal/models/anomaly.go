package models

import (
	"fmt"
	"time"
)

// Rule identifies an anomaly-detection category. Each rule has its own
// record shape, query parameters, and rendering spec.
type Rule int

const (
	// RuleBurst flags tokens issuing bursts of requests inside a short window.
	RuleBurst Rule = iota
	// RuleSharedToken flags tokens used by many distinct users.
	RuleSharedToken
	// RuleSharedIP flags IP addresses used by many distinct users.
	RuleSharedIP
	// RuleBigRequest flags single requests whose token count is a
	// statistical outlier.
	RuleBigRequest
)

// Rules lists the rules in display order.
var Rules = []Rule{RuleBurst, RuleSharedToken, RuleSharedIP, RuleBigRequest}

// String returns the display name for a rule.
func (r Rule) String() string {
	switch r {
	case RuleBurst:
		return "Burst"
	case RuleSharedToken:
		return "Shared Token"
	case RuleSharedIP:
		return "Shared IP"
	case RuleBigRequest:
		return "Big Request"
	default:
		return "Unknown"
	}
}

// Wire returns the rule identifier the backend expects.
func (r Rule) Wire() string {
	switch r {
	case RuleBurst:
		return "burst"
	case RuleSharedToken:
		return "multi_user_token"
	case RuleSharedIP:
		return "ip_many_users"
	case RuleBigRequest:
		return "big_request"
	default:
		return ""
	}
}

// RuleFromWire maps a backend rule identifier to a Rule.
func RuleFromWire(s string) (Rule, bool) {
	for _, r := range Rules {
		if r.Wire() == s {
			return r, true
		}
	}
	return 0, false
}

// Next cycles to the next rule.
func (r Rule) Next() Rule {
	return Rule((int(r) + 1) % len(Rules))
}

// Prev cycles to the previous rule.
func (r Rule) Prev() Rule {
	return Rule((int(r) - 1 + len(Rules)) % len(Rules))
}

// RuleParams are the tunable detection parameters. Only the fields
// relevant to the selected rule are sent to the backend.
type RuleParams struct {
	WindowSec      int
	UsersThreshold int
	Sigma          float64
	LimitPerToken  int
}

// DefaultRuleParams returns the backend's documented defaults.
func DefaultRuleParams() RuleParams {
	return RuleParams{
		WindowSec:      60,
		UsersThreshold: 5,
		Sigma:          3.0,
		LimitPerToken:  120,
	}
}

// TokenRef identifies an API token with an optional display name.
type TokenRef struct {
	ID   int64
	Name string
}

// Label returns the token name or a synthesized fallback.
func (t TokenRef) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Token %d", t.ID)
}

// UserRef identifies a user with an optional display name.
type UserRef struct {
	ID   int64
	Name string
}

// Label returns the username or a synthesized fallback.
func (u UserRef) Label() string {
	if u.Name != "" {
		return u.Name
	}
	return fmt.Sprintf("User %d", u.ID)
}

// AnomalyRecord is the sealed union of the four rule record shapes.
// Every record reports the rule it belongs to; a response's records
// always match its active rule.
type AnomalyRecord interface {
	Rule() Rule
}

// BurstRecord is one burst-rule finding.
type BurstRecord struct {
	Token        TokenRef
	RequestCount int64
	WindowSec    int
	Threshold    float64
	FirstSeen    time.Time
	LastSeen     time.Time
}

// Rule implements AnomalyRecord.
func (BurstRecord) Rule() Rule { return RuleBurst }

// SharedTokenRecord is one shared-token finding.
type SharedTokenRecord struct {
	Token         TokenRef
	UserCount     int64
	Threshold     float64
	Users         string // delimited user list as reported by the backend
	TotalRequests int64
}

// Rule implements AnomalyRecord.
func (SharedTokenRecord) Rule() Rule { return RuleSharedToken }

// SharedIPRecord is one shared-IP finding.
type SharedIPRecord struct {
	IP            string
	UserCount     int64
	Threshold     float64
	Users         string
	TotalRequests int64
}

// Rule implements AnomalyRecord.
func (SharedIPRecord) Rule() Rule { return RuleSharedIP }

// BigRequestRecord is one oversized-request finding.
type BigRequestRecord struct {
	Token           TokenRef
	User            UserRef
	TokenCount      int64
	OccurredAt      time.Time
	MeanTokens      float64
	StdDevTokens    float64
	Threshold       float64
	SigmaMultiplier float64
}

// Rule implements AnomalyRecord.
func (BigRequestRecord) Rule() Rule { return RuleBigRequest }

// AnomalyResponse carries the findings for one rule plus the echoed
// rule and total count.
type AnomalyResponse struct {
	Records    []AnomalyRecord
	Rule       Rule
	TotalCount int
}
