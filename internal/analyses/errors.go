package analyses

import (
	"context"
	"errors"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
)

// Failure codes reported in telemetry.
const (
	codeEntityNotFound   = "entity_not_found"
	codeGenerationFailed = "generation_failed"
	codeTimeout          = "timeout"
	codePermanent        = "permanent"
	codeInternal         = "internal"
)

// classifyFailure maps a processing error onto a telemetry code and whether
// a retry could change the outcome.
func classifyFailure(err error) (code string, retryable bool) {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, candidates.ErrNotFound),
		errors.Is(err, postings.ErrNotFound),
		errors.Is(err, applications.ErrNotFound):
		return codeEntityNotFound, false
	case queue.IsPermanent(err):
		return codePermanent, false
	case errors.As(err, &genErr):
		return codeGenerationFailed, true
	case errors.Is(err, context.DeadlineExceeded):
		return codeTimeout, true
	default:
		return codeInternal, true
	}
}
