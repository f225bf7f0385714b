package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeProcessor struct {
	mu     sync.Mutex
	errs   []error
	calls  int
	marked []string
}

func (p *fakeProcessor) Process(ctx context.Context, job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		return err
	}
	return nil
}

func (p *fakeProcessor) MarkEntityFailed(ctx context.Context, entityID, kind string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marked = append(p.marked, JobKey(entityID, kind))
}

func (p *fakeProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProcessor) markedKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.marked...)
}

type workerFixture struct {
	svc    *Service
	proc   *fakeProcessor
	cancel context.CancelFunc
	done   chan struct{}
}

func startWorker(t *testing.T, proc *fakeProcessor) *workerFixture {
	t.Helper()
	transport := NewMemoryTransport(32)
	svc := NewService(NewMemoryRepo(), transport, 3, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{Svc: svc, Source: transport, Proc: proc, Concurrency: 2, ShutdownGrace: 2 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	f := &workerFixture{svc: svc, proc: proc, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("worker did not stop")
		}
	})
	return f
}

func waitForStatus(t *testing.T, svc *Service, jobID, want string) Job {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, err := svc.GetJob(context.Background(), jobID)
	t.Fatalf("job %s never reached %q, last=%+v err=%v", jobID, want, job, err)
	return Job{}
}

func TestWorkerProcessesJobToSuccess(t *testing.T) {
	f := startWorker(t, &fakeProcessor{})

	job, _, err := f.svc.Enqueue(context.Background(), "cand-1", KindCVFeedback)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	final := waitForStatus(t, f.svc, job.ID, StatusSucceeded)
	if final.AttemptCount != 1 {
		t.Fatalf("expected one attempt, got %d", final.AttemptCount)
	}
	if f.proc.callCount() != 1 {
		t.Fatalf("expected one process call, got %d", f.proc.callCount())
	}
}

func TestWorkerRetriesTransientFailure(t *testing.T) {
	proc := &fakeProcessor{errs: []error{errors.New("transient")}}
	f := startWorker(t, proc)

	job, _, err := f.svc.Enqueue(context.Background(), "cand-1", KindCVFeedback)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	final := waitForStatus(t, f.svc, job.ID, StatusSucceeded)
	if final.AttemptCount != 2 {
		t.Fatalf("expected success on second attempt, got %d", final.AttemptCount)
	}
	if len(proc.markedKeys()) != 0 {
		t.Fatalf("entity must not be flagged when a retry recovers, got %v", proc.markedKeys())
	}
}

func TestWorkerFailsAfterRetryExhaustion(t *testing.T) {
	cause := errors.New("persistent failure")
	proc := &fakeProcessor{errs: []error{cause, cause, cause}}
	f := startWorker(t, proc)

	job, _, err := f.svc.Enqueue(context.Background(), "cand-1", KindCVFeedback)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	final := waitForStatus(t, f.svc, job.ID, StatusFailed)
	if final.AttemptCount != 3 {
		t.Fatalf("expected 3 attempts, got %d", final.AttemptCount)
	}
	if final.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	marked := proc.markedKeys()
	if len(marked) != 1 || marked[0] != JobKey("cand-1", KindCVFeedback) {
		t.Fatalf("expected entity flagged once, got %v", marked)
	}
}

func TestWorkerFailsPermanentErrorImmediately(t *testing.T) {
	proc := &fakeProcessor{errs: []error{Permanent(errors.New("entity gone"))}}
	f := startWorker(t, proc)

	job, _, err := f.svc.Enqueue(context.Background(), "ghost", KindCVFeedback)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	final := waitForStatus(t, f.svc, job.ID, StatusFailed)
	if final.AttemptCount != 1 {
		t.Fatalf("expected a single attempt, got %d", final.AttemptCount)
	}
	if f.proc.callCount() != 1 {
		t.Fatalf("expected one process call, got %d", f.proc.callCount())
	}
}

func TestWorkerDropsDuplicateDeliveryOfResolvedJob(t *testing.T) {
	proc := &fakeProcessor{}
	f := startWorker(t, proc)
	ctx := context.Background()

	job, _, err := f.svc.Enqueue(ctx, "cand-1", KindCVFeedback)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	waitForStatus(t, f.svc, job.ID, StatusSucceeded)

	// Simulate the transport redelivering the same message.
	msg := Message{JobID: job.ID, EntityID: job.EntityID, EntityKind: job.EntityKind}
	if err := f.svc.Transport.Send(ctx, msg, 0); err != nil {
		t.Fatalf("re-send: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if f.proc.callCount() != 1 {
		t.Fatalf("duplicate delivery must not be processed again, calls=%d", f.proc.callCount())
	}
	final, _ := f.svc.GetJob(ctx, job.ID)
	if final.Status != StatusSucceeded {
		t.Fatalf("job status must stay succeeded, got %q", final.Status)
	}
}
