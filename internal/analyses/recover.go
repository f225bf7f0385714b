package analyses

import "strings"

// RecoverPartial salvages what it can from a payload that failed strict
// validation. It is total: any payload, including nil, yields a well-formed
// result. A recovery alert is always appended, so the result carries at
// least one alert signal.
func RecoverPartial(payload map[string]any) Result {
	if payload == nil {
		return FallbackResult()
	}

	result := Result{
		Score:   scoreOrDefault(payload, "score", neutralScore),
		Summary: stringOrDefault(payload, "summary", recoveredSummary),
		Correspondence: Correspondence{
			Skills:     neutralPartial,
			Experience: false,
			Education:  false,
			Languages:  neutralPartial,
		},
	}

	if corr, ok := payload["correspondence"].(map[string]any); ok {
		result.Correspondence.Skills = scoreOrDefault(corr, "skills", neutralPartial)
		result.Correspondence.Languages = scoreOrDefault(corr, "languages", neutralPartial)
		if b, ok := corr["experience"].(bool); ok {
			result.Correspondence.Experience = b
		}
		if b, ok := corr["education"].(bool); ok {
			result.Correspondence.Education = b
		}
	}

	result.AlertSignals = recoverAlertSignals(payload)
	result.Suggestions = recoverSuggestions(payload)

	return result
}

func recoverAlertSignals(payload map[string]any) []AlertSignal {
	alerts := make([]AlertSignal, 0, 4)
	if raw, ok := payload["alertSignals"].([]any); ok {
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			problem, ok := entry["problem"].(string)
			if !ok || strings.TrimSpace(problem) == "" {
				continue
			}
			alert := AlertSignal{
				Category: stringOrDefault(entry, "category", "general"),
				Problem:  strings.TrimSpace(problem),
				Severity: normalizeSeverity(entry["severity"]),
			}
			alerts = append(alerts, alert)
			// Leave room for the recovery alert below.
			if len(alerts) == maxAlertSignals-1 {
				break
			}
		}
	}
	alerts = append(alerts, AlertSignal{
		Category: "analysis",
		Problem:  recoveredProblem,
		Severity: SeverityMedium,
	})
	return alerts
}

func recoverSuggestions(payload map[string]any) []string {
	suggestions := make([]string, 0, 4)
	if raw, ok := payload["suggestions"].([]any); ok {
		for _, item := range raw {
			s, ok := item.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			suggestions = append(suggestions, strings.TrimSpace(s))
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, fallbackAction)
	}
	return suggestions
}

func normalizeSeverity(val any) Severity {
	s, ok := val.(string)
	if !ok {
		return SeverityMedium
	}
	severity := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !ValidSeverity(severity) {
		return SeverityMedium
	}
	return severity
}

func stringOrDefault(payload map[string]any, field, def string) string {
	if s, ok := payload[field].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

func scoreOrDefault(payload map[string]any, field string, def float64) float64 {
	if n, ok := coerceNumber(payload[field]); ok {
		return clampScore(n)
	}
	return def
}
