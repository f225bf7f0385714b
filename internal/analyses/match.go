package analyses

import "sort"

// Fit levels derived from the overall score.
const (
	FitExcellent = "excellent"
	FitGood      = "good"
	FitAverage   = "average"
	FitPoor      = "poor"
)

// Recruiter decisions derived from the overall score.
const (
	DecisionInterview = "interview"
	DecisionConsider  = "consider"
	DecisionReject    = "reject"
)

// Assessment carries the recruiter-facing fields derived from a match result.
type Assessment struct {
	FitLevel          string   `json:"fitLevel"`
	Decision          string   `json:"decision"`
	SuggestedAction   string   `json:"suggestedAction"`
	CandidateFeedback []string `json:"candidateFeedback"`
}

// Assess derives recruiter guidance from a validated or recovered result.
func Assess(r Result) Assessment {
	return Assessment{
		FitLevel:          fitLevel(r.Score),
		Decision:          decision(r.Score),
		SuggestedAction:   suggestedAction(r.AlertSignals),
		CandidateFeedback: candidateFeedback(r.AlertSignals),
	}
}

func fitLevel(score float64) string {
	switch {
	case score >= 85:
		return FitExcellent
	case score >= 70:
		return FitGood
	case score >= 50:
		return FitAverage
	default:
		return FitPoor
	}
}

func decision(score float64) string {
	switch {
	case score >= 70:
		return DecisionInterview
	case score >= 50:
		return DecisionConsider
	default:
		return DecisionReject
	}
}

// suggestedAction surfaces the most severe alert as the next step.
func suggestedAction(alerts []AlertSignal) string {
	var top *AlertSignal
	for i := range alerts {
		if top == nil || severityRank(alerts[i].Severity) > severityRank(top.Severity) {
			top = &alerts[i]
		}
	}
	if top == nil {
		return "Proceed with standard screening."
	}
	return "Verify: " + top.Problem
}

// candidateFeedback lists alert problems ordered by severity, highest first.
// The order is stable for alerts of equal severity.
func candidateFeedback(alerts []AlertSignal) []string {
	sorted := append([]AlertSignal(nil), alerts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityRank(sorted[i].Severity) > severityRank(sorted[j].Severity)
	})
	feedback := make([]string, 0, len(sorted))
	for _, alert := range sorted {
		feedback = append(feedback, alert.Problem)
	}
	return feedback
}
