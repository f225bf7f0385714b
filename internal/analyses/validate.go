package analyses

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks a parsed payload against the result schema and returns the
// normalized result. Score-like fields must be coercible numbers; they are
// clamped into [0, 100]. Severities outside the closed set are rejected.
func Validate(payload map[string]any) (Result, error) {
	if payload == nil {
		return Result{}, fmt.Errorf("payload is empty")
	}

	score, err := requireScore(payload, "score")
	if err != nil {
		return Result{}, err
	}
	summary, err := requireString(payload, "summary")
	if err != nil {
		return Result{}, err
	}

	corr, err := validateCorrespondence(payload)
	if err != nil {
		return Result{}, err
	}

	alerts, err := validateAlertSignals(payload)
	if err != nil {
		return Result{}, err
	}

	suggestions, err := validateSuggestions(payload)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Score:          score,
		Summary:        summary,
		Correspondence: corr,
		AlertSignals:   alerts,
		Suggestions:    suggestions,
	}, nil
}

func validateCorrespondence(payload map[string]any) (Correspondence, error) {
	raw, ok := payload["correspondence"].(map[string]any)
	if !ok {
		return Correspondence{}, fmt.Errorf("field correspondence: missing or not an object")
	}

	skills, err := requireScore(raw, "skills")
	if err != nil {
		return Correspondence{}, fmt.Errorf("field correspondence.%s", err)
	}
	languages, err := requireScore(raw, "languages")
	if err != nil {
		return Correspondence{}, fmt.Errorf("field correspondence.%s", err)
	}
	experience, ok := raw["experience"].(bool)
	if !ok {
		return Correspondence{}, fmt.Errorf("field correspondence.experience: missing or not a boolean")
	}
	education, ok := raw["education"].(bool)
	if !ok {
		return Correspondence{}, fmt.Errorf("field correspondence.education: missing or not a boolean")
	}

	return Correspondence{
		Skills:     skills,
		Experience: experience,
		Education:  education,
		Languages:  languages,
	}, nil
}

func validateAlertSignals(payload map[string]any) ([]AlertSignal, error) {
	raw, ok := payload["alertSignals"].([]any)
	if !ok {
		return nil, fmt.Errorf("field alertSignals: missing or not an array")
	}

	alerts := make([]AlertSignal, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field alertSignals[%d]: not an object", i)
		}
		category, err := requireString(entry, "category")
		if err != nil {
			return nil, fmt.Errorf("field alertSignals[%d].%s", i, err)
		}
		problem, err := requireString(entry, "problem")
		if err != nil {
			return nil, fmt.Errorf("field alertSignals[%d].%s", i, err)
		}
		sevRaw, err := requireString(entry, "severity")
		if err != nil {
			return nil, fmt.Errorf("field alertSignals[%d].%s", i, err)
		}
		severity := Severity(strings.ToLower(sevRaw))
		if !ValidSeverity(severity) {
			return nil, fmt.Errorf("field alertSignals[%d].severity: %q is not one of low, medium, high", i, sevRaw)
		}
		alerts = append(alerts, AlertSignal{Category: category, Problem: problem, Severity: severity})
		if len(alerts) == maxAlertSignals {
			break
		}
	}
	return alerts, nil
}

func validateSuggestions(payload map[string]any) ([]string, error) {
	raw, ok := payload["suggestions"].([]any)
	if !ok {
		return nil, fmt.Errorf("field suggestions: missing or not an array")
	}

	suggestions := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("field suggestions[%d]: not a non-empty string", i)
		}
		suggestions = append(suggestions, strings.TrimSpace(s))
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions, nil
}

func requireString(payload map[string]any, field string) (string, error) {
	val, present := payload[field]
	if !present {
		return "", fmt.Errorf("%s: missing", field)
	}
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s: not a non-empty string", field)
	}
	return strings.TrimSpace(s), nil
}

func requireScore(payload map[string]any, field string) (float64, error) {
	val, present := payload[field]
	if !present {
		return 0, fmt.Errorf("%s: missing", field)
	}
	n, ok := coerceNumber(val)
	if !ok {
		return 0, fmt.Errorf("%s: not a number", field)
	}
	return clampScore(n), nil
}

// coerceNumber accepts JSON numbers and numeric strings.
func coerceNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
