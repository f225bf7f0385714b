package candidates

import "time"

// Candidate statuses follow the analysis lifecycle.
const (
	StatusPending       = "pending"
	StatusAnalyzed      = "analyzed"
	StatusAnalysisError = "analysis_error"
)

// Skill categories form a closed taxonomy; anything else is dropped upstream.
const (
	SkillTechnical     = "technical"
	SkillInterpersonal = "interpersonal"
	SkillLanguage      = "language"
)

// Language proficiency tiers for skills in the language category.
const (
	ProficiencyNative       = "native"
	ProficiencyProfessional = "professional"
	ProficiencyIntermediate = "intermediate"
	ProficiencyBeginner     = "beginner"
)

// Skill is a normalized skill extracted from a candidate's CV.
type Skill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Level       int    `json:"level"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Candidate is a person with an uploaded CV subject to analysis.
type Candidate struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	FullName   string         `json:"fullName"`
	CVKey      string         `json:"cvKey,omitempty"`
	CVMimeType string         `json:"cvMimeType,omitempty"`
	CVFileName string         `json:"cvFileName,omitempty"`
	Status     string         `json:"status"`
	Skills     []Skill        `json:"skills"`
	Analysis   map[string]any `json:"analysis,omitempty"`
	AnalyzedAt *time.Time     `json:"analyzedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
