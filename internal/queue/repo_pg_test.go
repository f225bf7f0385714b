package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	job := Job{
		ID:         "job-1",
		EntityID:   "cand-1",
		EntityKind: KindCVFeedback,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO analysis_jobs").
		WithArgs(job.ID, job.EntityID, job.EntityKind, job.Status, 0, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDMapsMissingToErrNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM analysis_jobs").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity_id", "entity_kind", "status", "attempt_count", "last_error", "created_at", "updated_at"}))

	if _, err := repo.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetActiveScansJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "entity_id", "entity_kind", "status", "attempt_count", "last_error", "created_at", "updated_at"}).
		AddRow("job-1", "cand-1", KindCVFeedback, StatusRunning, 2, "previous transient failure", now, now)

	mock.ExpectQuery("SELECT (.+) FROM analysis_jobs").
		WithArgs("cand-1", KindCVFeedback).
		WillReturnRows(rows)

	job, err := repo.GetActive(context.Background(), "cand-1", KindCVFeedback)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if job.ID != "job-1" || job.Status != StatusRunning || job.AttemptCount != 2 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.LastError != "previous transient failure" {
		t.Fatalf("unexpected last error: %q", job.LastError)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateRequiresRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	job := Job{ID: "ghost", Status: StatusFailed, AttemptCount: 3, LastError: "boom", UpdatedAt: time.Now().UTC()}

	mock.ExpectExec("UPDATE analysis_jobs").
		WithArgs(job.ID, job.Status, job.AttemptCount, job.LastError, job.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), job); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(StatusQueued, 2).
		AddRow(StatusSucceeded, 7)

	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[StatusQueued] != 2 || counts[StatusSucceeded] != 7 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
