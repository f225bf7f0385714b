package analyses

import (
	"fmt"
	"strings"

	"recruit-backend/internal/postings"
)

// resultSchemaInstructions describes the JSON shape every analysis prompt
// demands. Keeping it in one place keeps the three prompts in sync with the
// validator.
const resultSchemaInstructions = `Respond with a single JSON object and nothing else. No markdown, no commentary.
The object must have exactly this shape:
{
  "score": <number 0-100, overall assessment>,
  "summary": "<3-6 sentence narrative of the candidate's profile>",
  "correspondence": {
    "skills": <number 0-100>,
    "experience": <boolean, meets the experience requirement>,
    "education": <boolean, meets the education requirement>,
    "languages": <number 0-100>
  },
  "alertSignals": [
    {"category": "<short category>", "problem": "<specific concern>", "severity": "low" | "medium" | "high"}
  ],
  "suggestions": ["<concrete improvement or next step>"]
}
Use at most 10 alertSignals and at most 5 suggestions. Severity must be exactly low, medium or high.`

// BuildCVFeedbackPrompt asks for general feedback on a CV.
func BuildCVFeedbackPrompt(cvText string) string {
	var b strings.Builder
	b.WriteString("You are an experienced recruiter reviewing a candidate's CV.\n")
	b.WriteString("Assess the CV's overall quality: clarity, structure, completeness, achievements and consistency.\n")
	b.WriteString("Point out gaps, vague claims and inconsistencies as alert signals. Suggest concrete improvements.\n\n")
	b.WriteString(resultSchemaInstructions)
	b.WriteString("\n\nCV content:\n---\n")
	b.WriteString(cvText)
	b.WriteString("\n---\n")
	return b.String()
}

// BuildProfileExtractionPrompt asks for a structured reading of the
// candidate's profile. Its summary feeds the skill extraction stage.
func BuildProfileExtractionPrompt(cvText string) string {
	var b strings.Builder
	b.WriteString("You are an experienced recruiter building a structured profile from a candidate's CV.\n")
	b.WriteString("Summarize who the candidate is: role, seniority, domains, notable skills and languages.\n")
	b.WriteString("The summary must explicitly name the candidate's skills and spoken languages, as it feeds later processing.\n")
	b.WriteString("Flag missing or contradictory information as alert signals.\n\n")
	b.WriteString(resultSchemaInstructions)
	b.WriteString("\n\nCV content:\n---\n")
	b.WriteString(cvText)
	b.WriteString("\n---\n")
	return b.String()
}

// BuildJobMatchPrompt asks how well a candidate fits a posting.
func BuildJobMatchPrompt(cvText string, posting postings.Posting) string {
	var b strings.Builder
	b.WriteString("You are an experienced recruiter scoring how well a candidate matches a job posting.\n")
	b.WriteString("Score each correspondence dimension against the posting requirements below.\n")
	b.WriteString("Report requirement gaps as alert signals and phrase suggestions as advice the candidate could act on.\n\n")

	b.WriteString("Job posting:\n")
	fmt.Fprintf(&b, "Title: %s\n", posting.Title)
	if posting.EducationLevel != "" {
		fmt.Fprintf(&b, "Required education: %s", posting.EducationLevel)
		if posting.FieldOfStudy != "" {
			fmt.Fprintf(&b, " in %s", posting.FieldOfStudy)
		}
		b.WriteString("\n")
	}
	if posting.YearsExperience > 0 {
		fmt.Fprintf(&b, "Required experience: %d years\n", posting.YearsExperience)
	}
	if len(posting.HardSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(posting.HardSkills, ", "))
	}
	if len(posting.SoftSkills) > 0 {
		fmt.Fprintf(&b, "Valued soft skills: %s\n", strings.Join(posting.SoftSkills, ", "))
	}
	if len(posting.Languages) > 0 {
		fmt.Fprintf(&b, "Required languages: %s\n", strings.Join(posting.Languages, ", "))
	}
	b.WriteString("Description:\n")
	b.WriteString(posting.Description)
	b.WriteString("\n\n")

	b.WriteString(resultSchemaInstructions)
	b.WriteString("\n\nCandidate CV:\n---\n")
	b.WriteString(cvText)
	b.WriteString("\n---\n")
	return b.String()
}
