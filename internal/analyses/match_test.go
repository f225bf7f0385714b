package analyses

import (
	"reflect"
	"testing"
)

func TestFitLevelAndDecisionThresholds(t *testing.T) {
	cases := []struct {
		score    float64
		fit      string
		decision string
	}{
		{92, FitExcellent, DecisionInterview},
		{85, FitExcellent, DecisionInterview},
		{84.9, FitGood, DecisionInterview},
		{70, FitGood, DecisionInterview},
		{69.9, FitAverage, DecisionConsider},
		{50, FitAverage, DecisionConsider},
		{49.9, FitPoor, DecisionReject},
		{0, FitPoor, DecisionReject},
	}
	for _, tc := range cases {
		a := Assess(Result{Score: tc.score})
		if a.FitLevel != tc.fit {
			t.Fatalf("score %v: expected fit %q, got %q", tc.score, tc.fit, a.FitLevel)
		}
		if a.Decision != tc.decision {
			t.Fatalf("score %v: expected decision %q, got %q", tc.score, tc.decision, a.Decision)
		}
	}
}

func TestSuggestedActionUsesHighestSeverity(t *testing.T) {
	a := Assess(Result{
		Score: 60,
		AlertSignals: []AlertSignal{
			{Category: "skills", Problem: "Low skill overlap.", Severity: SeverityLow},
			{Category: "experience", Problem: "Years below requirement.", Severity: SeverityHigh},
			{Category: "languages", Problem: "No French.", Severity: SeverityMedium},
		},
	})
	if a.SuggestedAction != "Verify: Years below requirement." {
		t.Fatalf("unexpected action: %q", a.SuggestedAction)
	}
}

func TestSuggestedActionWithoutAlerts(t *testing.T) {
	a := Assess(Result{Score: 88})
	if a.SuggestedAction != "Proceed with standard screening." {
		t.Fatalf("unexpected action: %q", a.SuggestedAction)
	}
}

func TestCandidateFeedbackSortedBySeverity(t *testing.T) {
	a := Assess(Result{
		AlertSignals: []AlertSignal{
			{Problem: "first low", Severity: SeverityLow},
			{Problem: "first high", Severity: SeverityHigh},
			{Problem: "first medium", Severity: SeverityMedium},
			{Problem: "second high", Severity: SeverityHigh},
		},
	})
	want := []string{"first high", "second high", "first medium", "first low"}
	if !reflect.DeepEqual(a.CandidateFeedback, want) {
		t.Fatalf("unexpected feedback order: %v", a.CandidateFeedback)
	}
}
