package applications

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the application does not exist.
var ErrNotFound = errors.New("application not found")

// Repo defines persistence operations for applications.
type Repo interface {
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// SaveAnalysis overwrites any previous analysis result for the application.
	SaveAnalysis(ctx context.Context, id string, analysis map[string]any, analyzedAt time.Time) error
}
