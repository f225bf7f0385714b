package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"recruit-backend/internal/shared/telemetry"
)

// Processor executes the analysis behind a job.
type Processor interface {
	// Process runs the analysis. A nil return means the job succeeded, even
	// when the analysis itself degraded to a fallback result. Errors wrapped
	// with Permanent are failed without retry.
	Process(ctx context.Context, job Job) error
	// MarkEntityFailed flags the target entity after the job's final failure.
	MarkEntityFailed(ctx context.Context, entityID, kind string)
}

// Worker consumes job messages and drives them through the state machine.
type Worker struct {
	Svc         *Service
	Source      Receiver
	Proc        Processor
	Concurrency int

	// ShutdownGrace bounds how long Run waits for in-flight jobs on exit.
	ShutdownGrace time.Duration
}

// Run receives and processes messages until ctx is done, then waits for
// in-flight jobs up to ShutdownGrace.
func (w *Worker) Run(ctx context.Context) error {
	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	grace := w.ShutdownGrace
	if grace <= 0 {
		grace = 30 * time.Second
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{"concurrency": concurrency})

	for {
		msg, err := w.Source.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"err": err.Error()})
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			// Put-back is not possible; the message is redelivered through
			// job inspection on the next enqueue or by the transport.
			goto drain
		}

		wg.Add(1)
		go func(msg Message) {
			defer wg.Done()
			defer func() { <-sem }()
			w.handle(context.WithoutCancel(ctx), msg)
		}(msg)
	}

drain:
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		telemetry.Error("worker.shutdown_timeout", map[string]any{"grace": grace.String()})
	}
	telemetry.Info("worker.stopped", nil)
	return ctx.Err()
}

// handle runs one delivery through the job state machine.
func (w *Worker) handle(ctx context.Context, msg Message) {
	job, err := w.Svc.GetJob(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			telemetry.Error("worker.unknown_job", map[string]any{"job_id": msg.JobID})
			return
		}
		telemetry.Error("worker.load_job_failed", map[string]any{"job_id": msg.JobID, "err": err.Error()})
		return
	}
	if job.Terminal() {
		// Duplicate delivery after the job already resolved.
		return
	}

	job, err = w.Svc.Start(ctx, job)
	if err != nil {
		telemetry.Error("worker.start_failed", map[string]any{"job_id": msg.JobID, "err": err.Error()})
		return
	}

	procErr := w.Proc.Process(ctx, job)
	switch {
	case procErr == nil:
		if err := w.Svc.Succeed(ctx, job); err != nil {
			telemetry.Error("worker.succeed_failed", map[string]any{"job_id": job.ID, "err": err.Error()})
		}
	case IsPermanent(procErr):
		if err := w.Svc.Fail(ctx, job, procErr); err != nil {
			telemetry.Error("worker.fail_failed", map[string]any{"job_id": job.ID, "err": err.Error()})
		}
	default:
		retried, err := w.Svc.RetryOrFail(ctx, job, procErr)
		if err != nil {
			telemetry.Error("worker.retry_failed", map[string]any{"job_id": job.ID, "err": err.Error()})
			return
		}
		if !retried {
			w.Proc.MarkEntityFailed(ctx, job.EntityID, job.EntityKind)
		}
	}
}
