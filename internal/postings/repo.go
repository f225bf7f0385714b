package postings

import (
	"context"
	"errors"
)

// ErrNotFound indicates the posting does not exist.
var ErrNotFound = errors.New("posting not found")

// Repo defines persistence operations for postings.
type Repo interface {
	Create(ctx context.Context, p Posting) error
	GetByID(ctx context.Context, id string) (Posting, error)
}
