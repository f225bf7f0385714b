// Package skills turns an analysis narrative into normalized candidate
// skills through a second model pass.
package skills

import (
	"context"
	"fmt"
	"strings"

	"recruit-backend/internal/candidates"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/shared/telemetry"
)

const extractionPrompt = `Extract every skill mentioned in the profile narrative below.
Respond with a single JSON object and nothing else:
{
  "skills": [
    {"name": "<skill name>", "category": "technical" | "interpersonal" | "language", "level": "<free-form level, e.g. expert, beginner, 5 years, B2>"}
  ]
}
Categories: technical for tools, technologies and methods; interpersonal for soft skills; language for spoken or written languages.
For language entries, put the spoken level (e.g. native, fluent, B2) in "level".

Profile narrative:
---
%s
---
`

// Extractor derives candidate skills from an analysis narrative.
type Extractor struct {
	Gen llm.Generator
}

// Extract prompts the model with the narrative and normalizes the reply onto
// the skill taxonomy. Entries without a name and entries whose category does
// not map are dropped. A parse failure is an error; the caller decides how
// fatal that is.
func (e *Extractor) Extract(ctx context.Context, narrative string) ([]candidates.Skill, error) {
	if strings.TrimSpace(narrative) == "" {
		return nil, fmt.Errorf("narrative is empty")
	}

	text, err := e.Gen.Generate(ctx, fmt.Sprintf(extractionPrompt, narrative))
	if err != nil {
		return nil, fmt.Errorf("skill extraction: %w", err)
	}

	payload, ok := llm.ParseObject(text)
	if !ok {
		return nil, fmt.Errorf("skill extraction: unparseable reply")
	}
	rawSkills, ok := payload["skills"].([]any)
	if !ok {
		return nil, fmt.Errorf("skill extraction: reply has no skills array")
	}

	return normalizeSkills(rawSkills), nil
}

// normalizeSkills maps raw entries onto the closed taxonomy.
func normalizeSkills(rawSkills []any) []candidates.Skill {
	skills := make([]candidates.Skill, 0, len(rawSkills))
	seen := make(map[string]bool, len(rawSkills))

	for _, item := range rawSkills {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name, _ := entry["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			// A skill without a name cannot be stored.
			continue
		}

		rawCategory, _ := entry["category"].(string)
		category, ambiguous, ok := mapCategory(rawCategory)
		if !ok {
			telemetry.Warn("skill category dropped", map[string]any{
				"skill":    name,
				"category": rawCategory,
			})
			continue
		}
		if ambiguous {
			telemetry.Warn("skill category defaulted to technical", map[string]any{
				"skill": name,
			})
		}

		dedupeKey := category + "/" + strings.ToLower(name)
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true

		rawLevel, _ := entry["level"].(string)
		skill := candidates.Skill{Name: name, Category: category}
		if category == candidates.SkillLanguage {
			skill.Proficiency = normalizeProficiency(rawLevel)
			skill.Level = proficiencyToLevel(skill.Proficiency)
		} else {
			skill.Level = normalizeLevel(rawLevel)
		}
		skills = append(skills, skill)
	}
	return skills
}
