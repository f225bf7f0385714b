package candidates

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Candidate)}
}

// Create stores a candidate.
func (r *MemoryRepo) Create(ctx context.Context, c Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.ID] = c
	return nil
}

// GetByID returns a candidate by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// UpdateStatus sets the candidate's lifecycle status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	r.data[id] = c
	return nil
}

// SetCV records the stored CV object for the candidate.
func (r *MemoryRepo) SetCV(ctx context.Context, id, storageKey, mimeType, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	c.CVKey = storageKey
	c.CVMimeType = mimeType
	c.CVFileName = fileName
	r.data[id] = c
	return nil
}

// SaveAnalysis overwrites the candidate's analysis result.
func (r *MemoryRepo) SaveAnalysis(ctx context.Context, id string, analysis map[string]any, analyzedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	c.Analysis = analysis
	c.AnalyzedAt = &analyzedAt
	r.data[id] = c
	return nil
}

// ReplaceSkills swaps the candidate's full skill set.
func (r *MemoryRepo) ReplaceSkills(ctx context.Context, id string, skills []Skill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	c.Skills = append([]Skill(nil), skills...)
	r.data[id] = c
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
