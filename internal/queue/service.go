package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// Service owns the job state machine: it creates jobs, enforces single-flight
// per (entity, kind), and drives retry scheduling through the transport.
type Service struct {
	Repo      Repo
	Transport Transport
	Registry  *Registry

	// MaxAttempts bounds processing attempts per job.
	MaxAttempts int
	// RetryBase is the backoff base; attempt n waits RetryBase*2^(n-1).
	RetryBase time.Duration

	now func() time.Time
}

// NewService constructs a Service with the given retry policy.
func NewService(repo Repo, transport Transport, maxAttempts int, retryBase time.Duration) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryBase <= 0 {
		retryBase = 2 * time.Second
	}
	return &Service{
		Repo:        repo,
		Transport:   transport,
		Registry:    NewRegistry(),
		MaxAttempts: maxAttempts,
		RetryBase:   retryBase,
		now:         time.Now,
	}
}

// Enqueue creates and dispatches a job for the entity, or returns the live
// job already occupying its slot. The bool reports whether a job was created.
func (s *Service) Enqueue(ctx context.Context, entityID, kind string) (Job, bool, error) {
	if strings.TrimSpace(entityID) == "" {
		return Job{}, false, fmt.Errorf("entity id is required")
	}
	if !ValidKind(kind) {
		return Job{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	key := JobKey(entityID, kind)
	jobID := uuid.NewString()

	holderID, acquired := s.Registry.Acquire(key, jobID)
	if !acquired {
		job, err := s.Repo.GetByID(ctx, holderID)
		if errors.Is(err, ErrNotFound) {
			// The holder won the slot but has not persisted its row yet.
			return Job{ID: holderID, EntityID: entityID, EntityKind: kind, Status: StatusQueued}, false, nil
		}
		if err != nil {
			return Job{}, false, fmt.Errorf("load holding job: %w", err)
		}
		return job, false, nil
	}

	// A live job can exist without a registry entry after a restart.
	if existing, err := s.Repo.GetActive(ctx, entityID, kind); err == nil {
		s.Registry.Release(key)
		s.Registry.Acquire(key, existing.ID)
		return existing, false, nil
	}

	now := s.now().UTC()
	job := Job{
		ID:         jobID,
		EntityID:   entityID,
		EntityKind: kind,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		s.Registry.Release(key)
		// Another process may have won the slot through the unique index.
		if existing, lookupErr := s.Repo.GetActive(ctx, entityID, kind); lookupErr == nil {
			return existing, false, nil
		}
		return Job{}, false, fmt.Errorf("create job: %w", err)
	}

	msg := Message{
		JobID:      job.ID,
		EntityID:   entityID,
		EntityKind: kind,
		EnqueuedAt: now.Format(time.RFC3339),
	}
	if err := s.Transport.Send(ctx, msg, 0); err != nil {
		job.Status = StatusFailed
		job.LastError = sanitizeError(err)
		job.UpdatedAt = s.now().UTC()
		_ = s.Repo.Update(ctx, job)
		s.Registry.Release(key)
		return Job{}, false, fmt.Errorf("dispatch job: %w", err)
	}

	metrics.IncJobEnqueued()
	telemetry.Info("job.enqueued", map[string]any{
		"job_id":      job.ID,
		"entity_id":   entityID,
		"entity_kind": kind,
	})
	return job, true, nil
}

// Start transitions the job to running and increments its attempt count.
func (s *Service) Start(ctx context.Context, job Job) (Job, error) {
	job.Status = StatusRunning
	job.AttemptCount++
	job.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	telemetry.Info("job.status", map[string]any{
		"job_id":            job.ID,
		"entity_id":         job.EntityID,
		"entity_kind":       job.EntityKind,
		"status_transition": "queued->running",
		"attempt":           job.AttemptCount,
	})
	return job, nil
}

// Succeed marks the job succeeded and frees its single-flight slot.
func (s *Service) Succeed(ctx context.Context, job Job) error {
	job.Status = StatusSucceeded
	job.LastError = ""
	job.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return err
	}
	s.Registry.Release(JobKey(job.EntityID, job.EntityKind))
	metrics.IncJobSucceeded()
	telemetry.Info("job.status", map[string]any{
		"job_id":            job.ID,
		"entity_id":         job.EntityID,
		"entity_kind":       job.EntityKind,
		"status_transition": "running->succeeded",
	})
	return nil
}

// RetryOrFail re-queues the job with exponential backoff, or fails it when
// attempts are exhausted. It reports whether a retry was scheduled.
func (s *Service) RetryOrFail(ctx context.Context, job Job, cause error) (bool, error) {
	if job.AttemptCount >= s.MaxAttempts {
		return false, s.Fail(ctx, job, cause)
	}

	job.Status = StatusQueued
	job.LastError = sanitizeError(cause)
	job.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return false, err
	}

	delay := s.RetryBase << (job.AttemptCount - 1)
	msg := Message{
		JobID:      job.ID,
		EntityID:   job.EntityID,
		EntityKind: job.EntityKind,
		EnqueuedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.Transport.Send(ctx, msg, delay); err != nil {
		return false, s.Fail(ctx, job, fmt.Errorf("reschedule: %w", err))
	}

	metrics.IncJobRetried()
	telemetry.Info("job.status", map[string]any{
		"job_id":            job.ID,
		"entity_id":         job.EntityID,
		"entity_kind":       job.EntityKind,
		"status_transition": "running->queued",
		"attempt":           job.AttemptCount,
		"retry_delay_ms":    delay.Milliseconds(),
		"err":               sanitizeError(cause),
	})
	return true, nil
}

// Fail marks the job failed and frees its single-flight slot.
func (s *Service) Fail(ctx context.Context, job Job, cause error) error {
	job.Status = StatusFailed
	job.LastError = sanitizeError(cause)
	job.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return err
	}
	s.Registry.Release(JobKey(job.EntityID, job.EntityKind))
	metrics.IncJobFailed()
	telemetry.Error("job.status", map[string]any{
		"job_id":            job.ID,
		"entity_id":         job.EntityID,
		"entity_kind":       job.EntityKind,
		"status_transition": "running->failed",
		"attempt":           job.AttemptCount,
		"err":               job.LastError,
	})
	return nil
}

// GetJob returns a job by ID.
func (s *Service) GetJob(ctx context.Context, id string) (Job, error) {
	return s.Repo.GetByID(ctx, id)
}

// Stats returns job counts per status.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	return s.Repo.CountByStatus(ctx)
}

// sanitizeError flattens an error message for storage and logs.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
