package queue

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres. A partial unique index on
// (entity_id, entity_kind) for non-terminal statuses backs the single-flight
// invariant across processes.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO analysis_jobs (id, entity_id, entity_kind, status, attempt_count, last_error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var lastError sql.NullString
	if job.LastError != "" {
		lastError = sql.NullString{String: job.LastError, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.EntityID, job.EntityKind, job.Status, job.AttemptCount, lastError, job.CreatedAt, job.UpdatedAt)
	return err
}

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	const query = `
SELECT id, entity_id, entity_kind, status, attempt_count, last_error, created_at, updated_at
FROM analysis_jobs
WHERE id = $1`
	return r.scanJob(r.DB.QueryRowContext(ctx, query, id))
}

// GetActive returns the queued or running job for the slot, if any.
func (r *PGRepo) GetActive(ctx context.Context, entityID, kind string) (Job, error) {
	const query = `
SELECT id, entity_id, entity_kind, status, attempt_count, last_error, created_at, updated_at
FROM analysis_jobs
WHERE entity_id = $1 AND entity_kind = $2 AND status IN ('queued', 'running')
LIMIT 1`
	return r.scanJob(r.DB.QueryRowContext(ctx, query, entityID, kind))
}

// Update overwrites a stored job's mutable fields.
func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE analysis_jobs
SET status = $2, attempt_count = $3, last_error = $4, updated_at = $5
WHERE id = $1`

	var lastError sql.NullString
	if job.LastError != "" {
		lastError = sql.NullString{String: job.LastError, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx, query, job.ID, job.Status, job.AttemptCount, lastError, job.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of jobs per status.
func (r *PGRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) FROM analysis_jobs GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *PGRepo) scanJob(row *sql.Row) (Job, error) {
	var job Job
	var lastError sql.NullString
	err := row.Scan(
		&job.ID,
		&job.EntityID,
		&job.EntityKind,
		&job.Status,
		&job.AttemptCount,
		&lastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	job.LastError = lastError.String
	return job, nil
}

var _ Repo = (*PGRepo)(nil)
