package analyses

import "encoding/json"

// Severity of an alert signal. The set is closed; anything else is rejected
// by validation and normalized to medium during recovery.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ValidSeverity reports whether s names a known severity.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Result size limits applied during validation and recovery.
const (
	maxAlertSignals = 10
	maxSuggestions  = 5
)

// AlertSignal flags a concern the model found in the candidate material.
type AlertSignal struct {
	Category string   `json:"category"`
	Problem  string   `json:"problem"`
	Severity Severity `json:"severity"`
}

// Correspondence breaks the overall score into requirement dimensions.
type Correspondence struct {
	Skills     float64 `json:"skills"`
	Experience bool    `json:"experience"`
	Education  bool    `json:"education"`
	Languages  float64 `json:"languages"`
}

// Result is the normalized output of one analysis. All entity kinds share
// this shape; kinds differ in prompt and in the derived fields persisted
// alongside it.
type Result struct {
	Score          float64        `json:"score"`
	Summary        string         `json:"summary"`
	Correspondence Correspondence `json:"correspondence"`
	AlertSignals   []AlertSignal  `json:"alertSignals"`
	Suggestions    []string       `json:"suggestions"`
}

// ToMap converts the result to its persisted JSON form.
func (r Result) ToMap() map[string]any {
	raw, err := json.Marshal(r)
	if err != nil {
		return map[string]any{"score": r.Score, "summary": r.Summary}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"score": r.Score, "summary": r.Summary}
	}
	return out
}

// clampScore forces v into [0, 100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
