package analyses

// Fixed texts used when the model output could not be used as-is.
const (
	fallbackSummary  = "Automated analysis was not available for this profile."
	fallbackProblem  = "The automated analysis could not be completed; this result is a neutral placeholder."
	fallbackAction   = "Review this profile manually."
	recoveredSummary = "Automated analysis was partially recovered; some fields use defaults."
	recoveredProblem = "Parts of the automated analysis were unreadable and were replaced with defaults."
	emptyCVSummary   = "No CV content was available to analyze."
	emptyCVProblem   = "The candidate has no readable CV on file."
	neutralScore     = 50.0
	neutralPartial   = 50.0
)

// FallbackResult is the fixed neutral result persisted when no usable payload
// survived the attempt loop.
func FallbackResult() Result {
	return Result{
		Score:   neutralScore,
		Summary: fallbackSummary,
		Correspondence: Correspondence{
			Skills:     neutralPartial,
			Experience: false,
			Education:  false,
			Languages:  neutralPartial,
		},
		AlertSignals: []AlertSignal{
			{Category: "analysis", Problem: fallbackProblem, Severity: SeverityMedium},
		},
		Suggestions: []string{fallbackAction},
	}
}

// EmptyCVResult is the degraded result persisted when the candidate has no CV
// content. It is well formed, so the job still succeeds without any model call.
func EmptyCVResult() Result {
	return Result{
		Score:   0,
		Summary: emptyCVSummary,
		Correspondence: Correspondence{},
		AlertSignals: []AlertSignal{
			{Category: "document", Problem: emptyCVProblem, Severity: SeverityHigh},
		},
		Suggestions: []string{"Ask the candidate to upload a CV."},
	}
}
