package domain

import "testing"

func TestRiskLevelOrdering(t *testing.T) {
	levels := []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(levels); i++ {
		if levels[i-1] >= levels[i] {
			t.Fatalf("expected %s < %s", levels[i-1], levels[i])
		}
	}
}

func TestRiskLevelRoundTrip(t *testing.T) {
	for _, level := range []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical} {
		if got := ParseRiskLevel(level.String()); got != level {
			t.Errorf("ParseRiskLevel(%q) = %s", level.String(), got)
		}
	}
	if got := ParseRiskLevel("bogus"); got != RiskSafe {
		t.Errorf("unknown level should parse as safe, got %s", got)
	}
}

func TestAssessmentBlocked(t *testing.T) {
	blocked := RiskAssessment{Level: RiskCritical, BlockedReasons: []string{"nope"}}
	if !blocked.Blocked() {
		t.Fatal("expected blocked")
	}
	open := RiskAssessment{Level: RiskHigh, RequiresConfirmation: true}
	if open.Blocked() {
		t.Fatal("confirmation gate is not a block")
	}
}

func TestAssessmentSummary(t *testing.T) {
	cases := []struct {
		assessment RiskAssessment
		want       string
	}{
		{RiskAssessment{Level: RiskSafe}, "safe"},
		{RiskAssessment{Level: RiskCritical, BlockedReasons: []string{"x"}}, "critical (blocked)"},
		{RiskAssessment{Level: RiskMedium, RequiresElevation: true}, "medium (elevation)"},
		{RiskAssessment{Level: RiskMedium, RequiresConfirmation: true}, "medium (confirm)"},
	}
	for _, tc := range cases {
		if got := tc.assessment.Summary(); got != tc.want {
			t.Errorf("Summary() = %q, want %q", got, tc.want)
		}
	}
}
