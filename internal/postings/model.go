package postings

import "time"

// Posting is a job offer that candidates apply to.
type Posting struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EducationLevel  string    `json:"educationLevel,omitempty"`
	FieldOfStudy    string    `json:"fieldOfStudy,omitempty"`
	YearsExperience int       `json:"yearsExperience"`
	HardSkills      []string  `json:"hardSkills"`
	SoftSkills      []string  `json:"softSkills"`
	Languages       []string  `json:"languages"`
	CreatedAt       time.Time `json:"createdAt"`
}
