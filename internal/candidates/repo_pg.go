package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new candidate.
func (r *PGRepo) Create(ctx context.Context, c Candidate) error {
	const query = `
INSERT INTO candidates (id, email, full_name, cv_key, cv_mime_type, cv_file_name, status, skills, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := c.Status
	if status == "" {
		status = StatusPending
	}
	skills, err := json.Marshal(emptyIfNil(c.Skills))
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	var cvKey, cvMime, cvName sql.NullString
	if c.CVKey != "" {
		cvKey = sql.NullString{String: c.CVKey, Valid: true}
	}
	if c.CVMimeType != "" {
		cvMime = sql.NullString{String: c.CVMimeType, Valid: true}
	}
	if c.CVFileName != "" {
		cvName = sql.NullString{String: c.CVFileName, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query, c.ID, c.Email, c.FullName, cvKey, cvMime, cvName, status, skills, c.CreatedAt)
	return err
}

// GetByID returns a candidate by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, email, full_name, cv_key, cv_mime_type, cv_file_name, status, skills, analysis, analyzed_at, created_at
FROM candidates
WHERE id = $1`

	var c Candidate
	var cvKey, cvMime, cvName sql.NullString
	var skillsRaw []byte
	var analysisRaw []byte
	var analyzedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Email,
		&c.FullName,
		&cvKey,
		&cvMime,
		&cvName,
		&c.Status,
		&skillsRaw,
		&analysisRaw,
		&analyzedAt,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Candidate{}, ErrNotFound
	}
	if err != nil {
		return Candidate{}, err
	}

	c.CVKey = cvKey.String
	c.CVMimeType = cvMime.String
	c.CVFileName = cvName.String
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &c.Skills); err != nil {
			return Candidate{}, fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(analysisRaw) > 0 {
		if err := json.Unmarshal(analysisRaw, &c.Analysis); err != nil {
			return Candidate{}, fmt.Errorf("unmarshal analysis: %w", err)
		}
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		c.AnalyzedAt = &t
	}
	return c, nil
}

// UpdateStatus sets the candidate's lifecycle status.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE candidates SET status = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetCV records the stored CV object for the candidate.
func (r *PGRepo) SetCV(ctx context.Context, id, storageKey, mimeType, fileName string) error {
	const query = `UPDATE candidates SET cv_key = $2, cv_mime_type = $3, cv_file_name = $4 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, storageKey, mimeType, fileName)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SaveAnalysis overwrites the candidate's analysis result.
func (r *PGRepo) SaveAnalysis(ctx context.Context, id string, analysis map[string]any, analyzedAt time.Time) error {
	const query = `UPDATE candidates SET analysis = $2, analyzed_at = $3 WHERE id = $1`
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, id, raw, analyzedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ReplaceSkills swaps the candidate's full skill set.
func (r *PGRepo) ReplaceSkills(ctx context.Context, id string, skills []Skill) error {
	const query = `UPDATE candidates SET skills = $2 WHERE id = $1`
	raw, err := json.Marshal(emptyIfNil(skills))
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, id, raw)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func emptyIfNil(skills []Skill) []Skill {
	if skills == nil {
		return []Skill{}
	}
	return skills
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
