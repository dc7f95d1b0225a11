package models

import (
	"testing"
	"time"
)

func TestRule_Wire(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{RuleBurst, "burst"},
		{RuleSharedToken, "multi_user_token"},
		{RuleSharedIP, "ip_many_users"},
		{RuleBigRequest, "big_request"},
	}

	for _, tt := range tests {
		if got := tt.rule.Wire(); got != tt.want {
			t.Errorf("%v.Wire() = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestRuleFromWire(t *testing.T) {
	for _, r := range Rules {
		got, ok := RuleFromWire(r.Wire())
		if !ok || got != r {
			t.Errorf("RuleFromWire(%q) = %v, %v", r.Wire(), got, ok)
		}
	}

	if _, ok := RuleFromWire("nonsense"); ok {
		t.Error("RuleFromWire should reject unknown identifiers")
	}
}

func TestRule_NextPrev(t *testing.T) {
	for _, r := range Rules {
		if r.Next().Prev() != r {
			t.Errorf("Next then Prev should round-trip, got %v", r.Next().Prev())
		}
	}

	if RuleBigRequest.Next() != RuleBurst {
		t.Error("Next should wrap around to the first rule")
	}
	if RuleBurst.Prev() != RuleBigRequest {
		t.Error("Prev should wrap around to the last rule")
	}
}

func TestDefaultRuleParams(t *testing.T) {
	p := DefaultRuleParams()
	if p.WindowSec != 60 {
		t.Errorf("WindowSec = %d, want 60", p.WindowSec)
	}
	if p.UsersThreshold != 5 {
		t.Errorf("UsersThreshold = %d, want 5", p.UsersThreshold)
	}
	if p.Sigma != 3.0 {
		t.Errorf("Sigma = %v, want 3.0", p.Sigma)
	}
	if p.LimitPerToken != 120 {
		t.Errorf("LimitPerToken = %d, want 120", p.LimitPerToken)
	}
}

func TestRefLabels(t *testing.T) {
	if (TokenRef{ID: 3, Name: "ops"}).Label() != "ops" {
		t.Error("TokenRef should prefer its name")
	}
	if (TokenRef{ID: 3}).Label() != "Token 3" {
		t.Error("TokenRef should synthesize a label from the ID")
	}
	if (UserRef{ID: 5, Name: "bob"}).Label() != "bob" {
		t.Error("UserRef should prefer its name")
	}
	if (UserRef{ID: 5}).Label() != "User 5" {
		t.Error("UserRef should synthesize a label from the ID")
	}
}

func TestAnomalyRecord_Rules(t *testing.T) {
	records := []AnomalyRecord{
		BurstRecord{FirstSeen: time.Now()},
		SharedTokenRecord{},
		SharedIPRecord{},
		BigRequestRecord{},
	}
	want := []Rule{RuleBurst, RuleSharedToken, RuleSharedIP, RuleBigRequest}

	for i, rec := range records {
		if rec.Rule() != want[i] {
			t.Errorf("%T.Rule() = %v, want %v", rec, rec.Rule(), want[i])
		}
	}
}
