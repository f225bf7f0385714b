package skills

import (
	"regexp"
	"strings"

	"recruit-backend/internal/candidates"
)

// foldDiacritics maps the accented characters that appear in French level
// descriptions onto their ASCII base, so substring matching works on both
// languages.
var foldDiacritics = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func normalizeText(s string) string {
	return foldDiacritics.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// mapCategory resolves a raw category onto the closed taxonomy. An empty
// category counts as ambiguous and lands in technical; an unrecognized one
// reports ok=false and the skill is dropped.
func mapCategory(raw string) (category string, ambiguous bool, ok bool) {
	switch normalizeText(raw) {
	case "":
		return candidates.SkillTechnical, true, true
	case "technical", "technique", "hard", "hard skill", "hard skills", "tech":
		return candidates.SkillTechnical, false, true
	case "interpersonal", "interpersonnel", "interpersonnelle", "soft", "soft skill", "soft skills", "social":
		return candidates.SkillInterpersonal, false, true
	case "language", "languages", "langue", "langues", "linguistic", "linguistique":
		return candidates.SkillLanguage, false, true
	}
	return "", false, false
}

var yearsRe = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|ans?)`)

// normalizeLevel maps a free-form level description to the 1-5 scale.
// Unspecified levels default to 3.
func normalizeLevel(raw string) int {
	text := normalizeText(raw)
	if text == "" {
		return 3
	}

	if m := yearsRe.FindStringSubmatch(text); m != nil {
		years := 0
		for _, c := range m[1] {
			years = years*10 + int(c-'0')
		}
		switch {
		case years >= 5:
			return 5
		case years >= 2:
			return 3
		default:
			return 1
		}
	}

	switch {
	case containsAny(text, "expert", "advanced", "avance", "senior", "master", "maitrise"):
		return 5
	case containsAny(text, "intermediate", "intermediaire", "confirmed", "confirme", "operational", "operationnel"):
		return 3
	case containsAny(text, "beginner", "debutant", "basic", "basique", "notions", "junior", "elementary", "elementaire"):
		return 1
	}
	return 3
}

// normalizeProficiency maps a free-form language level onto the closed
// proficiency tiers. Unrecognized levels default to intermediate.
func normalizeProficiency(raw string) string {
	text := normalizeText(raw)
	switch {
	case containsAny(text, "native", "natif", "maternelle", "mother tongue", "bilingual", "bilingue", "c2"):
		return candidates.ProficiencyNative
	case containsAny(text, "professional", "professionnel", "fluent", "courant", "advanced", "avance", "c1"):
		return candidates.ProficiencyProfessional
	case containsAny(text, "beginner", "debutant", "basic", "basique", "notions", "elementary", "elementaire", "a1", "a2"):
		return candidates.ProficiencyBeginner
	case containsAny(text, "intermediate", "intermediaire", "conversational", "b1", "b2"):
		return candidates.ProficiencyIntermediate
	}
	return candidates.ProficiencyIntermediate
}

// proficiencyToLevel keeps the numeric level consistent with the tier.
func proficiencyToLevel(proficiency string) int {
	switch proficiency {
	case candidates.ProficiencyNative:
		return 5
	case candidates.ProficiencyProfessional:
		return 4
	case candidates.ProficiencyIntermediate:
		return 3
	default:
		return 1
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
