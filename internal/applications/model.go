package applications

import "time"

// Application statuses follow the analysis lifecycle.
const (
	StatusPending       = "pending"
	StatusAnalyzed      = "analyzed"
	StatusAnalysisError = "analysis_error"
)

// Application links a candidate to a posting.
type Application struct {
	ID          string         `json:"id"`
	CandidateID string         `json:"candidateId"`
	PostingID   string         `json:"postingId"`
	Status      string         `json:"status"`
	Analysis    map[string]any `json:"analysis,omitempty"`
	AnalyzedAt  *time.Time     `json:"analyzedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
