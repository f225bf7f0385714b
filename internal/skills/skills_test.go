package skills

import (
	"context"
	"errors"
	"testing"

	"recruit-backend/internal/candidates"
)

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

func (g *stubGenerator) GenerateWithAttachment(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	return g.text, g.err
}

func TestExtractNormalizesReply(t *testing.T) {
	gen := &stubGenerator{text: `{"skills": [
		{"name": "Go", "category": "technical", "level": "expert"},
		{"name": "Teamwork", "category": "soft skills", "level": ""},
		{"name": "French", "category": "langue", "level": "courant"},
		{"name": "", "category": "technical", "level": "expert"},
		{"name": "COBOL", "category": "vintage", "level": "expert"},
		{"name": "go", "category": "technical", "level": "5 years"}
	]}`}

	skills, err := (&Extractor{Gen: gen}).Extract(context.Background(), "narrative")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(skills) != 3 {
		t.Fatalf("expected 3 skills after dropping and dedupe, got %d: %+v", len(skills), skills)
	}
	if skills[0] != (candidates.Skill{Name: "Go", Category: candidates.SkillTechnical, Level: 5}) {
		t.Fatalf("unexpected first skill: %+v", skills[0])
	}
	if skills[1].Category != candidates.SkillInterpersonal || skills[1].Level != 3 {
		t.Fatalf("unexpected soft skill: %+v", skills[1])
	}
	if skills[2].Category != candidates.SkillLanguage ||
		skills[2].Proficiency != candidates.ProficiencyProfessional ||
		skills[2].Level != 4 {
		t.Fatalf("unexpected language skill: %+v", skills[2])
	}
}

func TestExtractEmptyCategoryDefaultsToTechnical(t *testing.T) {
	gen := &stubGenerator{text: `{"skills": [{"name": "Kubernetes", "category": "", "level": "intermediate"}]}`}

	skills, err := (&Extractor{Gen: gen}).Extract(context.Background(), "narrative")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(skills) != 1 || skills[0].Category != candidates.SkillTechnical {
		t.Fatalf("expected technical default, got %+v", skills)
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := (&Extractor{Gen: &stubGenerator{}}).Extract(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty narrative")
	}
	if _, err := (&Extractor{Gen: &stubGenerator{err: errors.New("down")}}).Extract(context.Background(), "n"); err == nil {
		t.Fatalf("expected generation error to surface")
	}
	if _, err := (&Extractor{Gen: &stubGenerator{text: "prose"}}).Extract(context.Background(), "n"); err == nil {
		t.Fatalf("expected parse failure to surface")
	}
	if _, err := (&Extractor{Gen: &stubGenerator{text: `{"notskills": []}`}}).Extract(context.Background(), "n"); err == nil {
		t.Fatalf("expected missing skills array to surface")
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"expert", 5},
		{"Avancé", 5},
		{"senior", 5},
		{"intermédiaire", 3},
		{"opérationnel", 3},
		{"beginner", 1},
		{"débutant", 1},
		{"notions", 1},
		{"", 3},
		{"something else", 3},
		{"7 years", 5},
		{"5+ years", 5},
		{"3 ans", 3},
		{"1 year", 1},
	}
	for _, tc := range cases {
		if got := normalizeLevel(tc.raw); got != tc.want {
			t.Fatalf("normalizeLevel(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeProficiency(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"native", candidates.ProficiencyNative},
		{"langue maternelle", candidates.ProficiencyNative},
		{"bilingue", candidates.ProficiencyNative},
		{"C2", candidates.ProficiencyNative},
		{"fluent", candidates.ProficiencyProfessional},
		{"courant", candidates.ProficiencyProfessional},
		{"C1", candidates.ProficiencyProfessional},
		{"B2", candidates.ProficiencyIntermediate},
		{"conversational", candidates.ProficiencyIntermediate},
		{"A1", candidates.ProficiencyBeginner},
		{"débutant", candidates.ProficiencyBeginner},
		{"", candidates.ProficiencyIntermediate},
		{"unclear", candidates.ProficiencyIntermediate},
	}
	for _, tc := range cases {
		if got := normalizeProficiency(tc.raw); got != tc.want {
			t.Fatalf("normalizeProficiency(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMapCategory(t *testing.T) {
	if cat, ambiguous, ok := mapCategory("Technique"); !ok || ambiguous || cat != candidates.SkillTechnical {
		t.Fatalf("unexpected mapping for Technique: %q %v %v", cat, ambiguous, ok)
	}
	if cat, ambiguous, ok := mapCategory(""); !ok || !ambiguous || cat != candidates.SkillTechnical {
		t.Fatalf("expected empty category to be ambiguous technical: %q %v %v", cat, ambiguous, ok)
	}
	if _, _, ok := mapCategory("mystical"); ok {
		t.Fatalf("expected unknown category to be rejected")
	}
}
