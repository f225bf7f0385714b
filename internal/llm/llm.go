package llm

import (
	"context"
	"fmt"
	"time"
)

// Generator produces model completions for a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	// Generate returns the raw text completion for the prompt.
	// An empty completion is reported as an error, never as ("", nil).
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateWithAttachment sends a binary document alongside the prompt
	// so the model can read content that local extraction could not.
	GenerateWithAttachment(ctx context.Context, data []byte, mimeType string, prompt string) (string, error)
}

// GenerationError wraps the last provider error after all attempts were spent.
type GenerationError struct {
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// BackoffFunc returns the delay to wait before the given retry attempt.
// Attempt numbering starts at 1 for the first retry.
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits base*attempt between retries.
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return time.Duration(attempt) * base
	}
}

// ExponentialBackoff waits base*2^(attempt-1) between retries.
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}
