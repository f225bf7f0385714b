package candidates

import (
	"context"
	"time"
)

// Repo defines persistence operations for candidates.
type Repo interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, id string) (Candidate, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// SetCV records the stored CV object for the candidate.
	SetCV(ctx context.Context, id, storageKey, mimeType, fileName string) error
	// SaveAnalysis overwrites any previous analysis result for the candidate.
	SaveAnalysis(ctx context.Context, id string, analysis map[string]any, analyzedAt time.Time) error
	// ReplaceSkills atomically swaps the candidate's full skill set.
	ReplaceSkills(ctx context.Context, id string, skills []Skill) error
}
