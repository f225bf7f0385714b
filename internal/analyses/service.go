package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/extract"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
)

// SkillExtractor derives normalized skills from an analysis narrative.
type SkillExtractor interface {
	Extract(ctx context.Context, narrative string) ([]candidates.Skill, error)
}

// Service runs analyses end to end: load the entity, prompt the model,
// validate or salvage the reply, persist, and fire side effects. It is the
// queue worker's Processor.
type Service struct {
	Candidates   candidates.Repo
	Postings     postings.Repo
	Applications applications.Repo
	Store        object.ObjectStore
	Gen          llm.Generator
	Skills       SkillExtractor
	Mailer       notify.Sender

	// MaxAttempts bounds the parse-and-validate loop per analysis. Spent
	// attempts resolve to a recovered or fallback result, never an error.
	MaxAttempts int
	// Version tags persisted results with the prompt/model revision.
	Version string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewService constructs a Service with default attempt policy.
func NewService(
	cands candidates.Repo,
	posts postings.Repo,
	apps applications.Repo,
	store object.ObjectStore,
	gen llm.Generator,
	skillExtractor SkillExtractor,
	mailer notify.Sender,
	version string,
) *Service {
	return &Service{
		Candidates:   cands,
		Postings:     posts,
		Applications: apps,
		Store:        store,
		Gen:          gen,
		Skills:       skillExtractor,
		Mailer:       mailer,
		MaxAttempts:  3,
		Version:      version,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Process implements queue.Processor.
func (s *Service) Process(ctx context.Context, job queue.Job) error {
	start := s.now()

	var err error
	switch job.EntityKind {
	case queue.KindCVFeedback, queue.KindProfileExtraction:
		err = s.processCandidate(ctx, job)
	case queue.KindJobMatch:
		err = s.processApplication(ctx, job)
	default:
		err = queue.Permanent(fmt.Errorf("unsupported entity kind %q", job.EntityKind))
	}

	durationMs := s.now().Sub(start).Milliseconds()
	metrics.ObserveAnalysisDurationMs(float64(durationMs))

	if err != nil {
		code, retryable := classifyFailure(err)
		telemetry.Error("analysis.failed", map[string]any{
			"job_id":      job.ID,
			"entity_id":   job.EntityID,
			"entity_kind": job.EntityKind,
			"code":        code,
			"retryable":   retryable,
			"duration_ms": durationMs,
			"err":         err.Error(),
		})
		return err
	}

	telemetry.Info("analysis.completed", map[string]any{
		"job_id":      job.ID,
		"entity_id":   job.EntityID,
		"entity_kind": job.EntityKind,
		"duration_ms": durationMs,
	})
	return nil
}

// MarkEntityFailed implements queue.Processor. It flags the entity after the
// job's final infrastructure failure.
func (s *Service) MarkEntityFailed(ctx context.Context, entityID, kind string) {
	var err error
	switch kind {
	case queue.KindJobMatch:
		err = s.Applications.UpdateStatus(ctx, entityID, applications.StatusAnalysisError)
	default:
		err = s.Candidates.UpdateStatus(ctx, entityID, candidates.StatusAnalysisError)
	}
	if err != nil {
		telemetry.Error("analysis.mark_failed_error", map[string]any{
			"entity_id":   entityID,
			"entity_kind": kind,
			"err":         err.Error(),
		})
	}
}

func (s *Service) processCandidate(ctx context.Context, job queue.Job) error {
	cand, err := s.Candidates.GetByID(ctx, job.EntityID)
	if errors.Is(err, candidates.ErrNotFound) {
		return queue.Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}

	result, usedFallback, err := s.analyzeCV(ctx, cand, func(cvText string) string {
		if job.EntityKind == queue.KindProfileExtraction {
			return BuildProfileExtractionPrompt(cvText)
		}
		return BuildCVFeedbackPrompt(cvText)
	})
	if err != nil {
		return err
	}

	now := s.now().UTC()
	analysis := result.ToMap()
	analysis["version"] = s.Version
	analysis["analyzedAt"] = now.Format(time.RFC3339)

	if err := s.Candidates.SaveAnalysis(ctx, cand.ID, analysis, now); err != nil {
		return fmt.Errorf("persist analysis: %w", err)
	}
	if err := s.Candidates.UpdateStatus(ctx, cand.ID, candidates.StatusAnalyzed); err != nil {
		return fmt.Errorf("update candidate status: %w", err)
	}
	if usedFallback {
		metrics.IncAnalysisFallback()
	}

	if job.EntityKind == queue.KindProfileExtraction {
		s.extractSkills(ctx, cand.ID, result.Summary)
	}

	s.sendResultEmail(ctx, cand.Email, "Your profile analysis is ready", result, nil)
	return nil
}

func (s *Service) processApplication(ctx context.Context, job queue.Job) error {
	app, err := s.Applications.GetByID(ctx, job.EntityID)
	if errors.Is(err, applications.ErrNotFound) {
		return queue.Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}

	cand, err := s.Candidates.GetByID(ctx, app.CandidateID)
	if errors.Is(err, candidates.ErrNotFound) {
		return queue.Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}

	posting, err := s.Postings.GetByID(ctx, app.PostingID)
	if errors.Is(err, postings.ErrNotFound) {
		return queue.Permanent(err)
	}
	if err != nil {
		return fmt.Errorf("load posting: %w", err)
	}

	result, usedFallback, err := s.analyzeCV(ctx, cand, func(cvText string) string {
		return BuildJobMatchPrompt(cvText, posting)
	})
	if err != nil {
		return err
	}

	assessment := Assess(result)

	now := s.now().UTC()
	analysis := result.ToMap()
	analysis["assessment"] = map[string]any{
		"fitLevel":          assessment.FitLevel,
		"decision":          assessment.Decision,
		"suggestedAction":   assessment.SuggestedAction,
		"candidateFeedback": assessment.CandidateFeedback,
	}
	analysis["version"] = s.Version
	analysis["analyzedAt"] = now.Format(time.RFC3339)

	if err := s.Applications.SaveAnalysis(ctx, app.ID, analysis, now); err != nil {
		return fmt.Errorf("persist analysis: %w", err)
	}
	if err := s.Applications.UpdateStatus(ctx, app.ID, applications.StatusAnalyzed); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if usedFallback {
		metrics.IncAnalysisFallback()
	}

	subject := fmt.Sprintf("Your application for %s was reviewed", posting.Title)
	s.sendResultEmail(ctx, cand.Email, subject, result, &assessment)
	return nil
}

// analyzeCV loads the candidate's CV and runs the generation loop with the
// prompt built by buildPrompt. Candidates without readable CV content get a
// degraded result without any model call.
func (s *Service) analyzeCV(ctx context.Context, cand candidates.Candidate, buildPrompt func(cvText string) string) (Result, bool, error) {
	if cand.CVKey == "" {
		return EmptyCVResult(), false, nil
	}

	cvText, raw, extractErr := extract.CVText(ctx, s.Store, cand.CVKey, cand.CVMimeType, cand.CVFileName)
	if extractErr != nil && len(raw) == 0 {
		return Result{}, false, fmt.Errorf("load cv: %w", extractErr)
	}

	var attachment []byte
	var attachMime string
	if strings.TrimSpace(cvText) == "" {
		// Local extraction failed or came back empty; let the model read the
		// document itself when the format supports it.
		if cand.CVMimeType == "application/pdf" && len(raw) > 0 {
			attachment = raw
			attachMime = cand.CVMimeType
			telemetry.Info("analysis.attachment_path", map[string]any{
				"candidate_id": cand.ID,
				"mime_type":    cand.CVMimeType,
			})
		} else {
			return EmptyCVResult(), false, nil
		}
	}

	return s.generate(ctx, buildPrompt(cvText), attachment, attachMime)
}

// generate runs the attempt loop: prompt, parse, validate. Generation and
// content failures burn attempts; after the last one the best partial
// payload is recovered, or the fixed fallback is returned. Only context
// cancellation surfaces as an error.
func (s *Service) generate(ctx context.Context, prompt string, attachment []byte, attachMime string) (Result, bool, error) {
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastPayload map[string]any
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			s.sleep(ctx, time.Duration(attempt-1)*2*time.Second)
			if ctx.Err() != nil {
				return Result{}, false, ctx.Err()
			}
		}

		var text string
		var err error
		if len(attachment) > 0 {
			text, err = s.Gen.GenerateWithAttachment(ctx, attachment, attachMime, prompt)
		} else {
			text, err = s.Gen.Generate(ctx, prompt)
		}
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, false, ctx.Err()
			}
			telemetry.Warn("analysis.attempt_unusable", map[string]any{
				"attempt": attempt,
				"reason":  "generation failed",
				"err":     err.Error(),
			})
			continue
		}

		payload, ok := llm.ParseObject(text)
		if !ok {
			telemetry.Warn("analysis.attempt_unusable", map[string]any{
				"attempt": attempt,
				"reason":  "unparseable completion",
			})
			continue
		}

		result, err := Validate(payload)
		if err == nil {
			return result, false, nil
		}
		lastPayload = payload
		telemetry.Warn("analysis.attempt_unusable", map[string]any{
			"attempt": attempt,
			"reason":  err.Error(),
		})
	}

	if lastPayload != nil {
		return RecoverPartial(lastPayload), true, nil
	}
	return FallbackResult(), true, nil
}

// extractSkills runs the post-processing stage. It never fails the job: a
// broken extraction only logs, and the previous skill set stays in place.
func (s *Service) extractSkills(ctx context.Context, candidateID, narrative string) {
	if s.Skills == nil {
		return
	}
	skills, err := s.Skills.Extract(ctx, narrative)
	if err != nil {
		telemetry.Warn("skills.extraction_skipped", map[string]any{
			"candidate_id": candidateID,
			"err":          err.Error(),
		})
		return
	}
	if len(skills) == 0 {
		return
	}
	if err := s.Candidates.ReplaceSkills(ctx, candidateID, skills); err != nil {
		telemetry.Error("skills.replace_failed", map[string]any{
			"candidate_id": candidateID,
			"err":          err.Error(),
		})
		return
	}
	telemetry.Info("skills.replaced", map[string]any{
		"candidate_id": candidateID,
		"count":        len(skills),
	})
}

// sendResultEmail is best-effort; delivery problems never fail the analysis.
func (s *Service) sendResultEmail(ctx context.Context, to, subject string, result Result, assessment *Assessment) {
	if s.Mailer == nil || strings.TrimSpace(to) == "" {
		return
	}

	var b strings.Builder
	b.WriteString(result.Summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Overall score: %.0f/100\n", result.Score)
	if assessment != nil {
		fmt.Fprintf(&b, "Fit level: %s\n", assessment.FitLevel)
		if len(assessment.CandidateFeedback) > 0 {
			b.WriteString("\nFeedback:\n")
			for _, line := range assessment.CandidateFeedback {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		}
	}
	if len(result.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(&b, "- %s\n", suggestion)
		}
	}

	if err := s.Mailer.Send(ctx, to, subject, b.String()); err != nil {
		telemetry.Error("analysis.email_failed", map[string]any{
			"to":  to,
			"err": err.Error(),
		})
	}
}

var _ queue.Processor = (*Service)(nil)
