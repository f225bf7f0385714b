package applications

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

// Create inserts a new application.
func (r *PGRepo) Create(ctx context.Context, a Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, posting_id, status, created_at)
VALUES ($1, $2, $3, $4, $5)`

	status := a.Status
	if status == "" {
		status = StatusPending
	}
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.CandidateID, a.PostingID, status, a.CreatedAt)
	return err
}

// GetByID returns an application by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	const query = `
SELECT id, candidate_id, posting_id, status, analysis, analyzed_at, created_at
FROM applications
WHERE id = $1`

	var a Application
	var analysisRaw []byte
	var analyzedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.CandidateID,
		&a.PostingID,
		&a.Status,
		&analysisRaw,
		&analyzedAt,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, err
	}

	if len(analysisRaw) > 0 {
		if err := json.Unmarshal(analysisRaw, &a.Analysis); err != nil {
			return Application{}, fmt.Errorf("unmarshal analysis: %w", err)
		}
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		a.AnalyzedAt = &t
	}
	return a, nil
}

// UpdateStatus sets the application's lifecycle status.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE applications SET status = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SaveAnalysis overwrites the application's analysis result.
func (r *PGRepo) SaveAnalysis(ctx context.Context, id string, analysis map[string]any, analyzedAt time.Time) error {
	const query = `UPDATE applications SET analysis = $2, analyzed_at = $3 WHERE id = $1`
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
