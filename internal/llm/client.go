package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// ClientConfig tunes the retry and timeout behavior of Client.
type ClientConfig struct {
	// MaxAttempts bounds provider calls per Generate, retries included.
	MaxAttempts int
	// Timeout applies per provider call, not across the whole attempt loop.
	Timeout time.Duration
	// Backoff computes the wait before each retry. Defaults to linear 300ms.
	Backoff BackoffFunc
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Backoff == nil {
		c.Backoff = LinearBackoff(300 * time.Millisecond)
	}
	return c
}

// Client wraps a provider with bounded retries, per-call timeouts and an
// optional response cache keyed by prompt fingerprint.
type Client struct {
	provider Generator
	cache    *Cache
	cfg      ClientConfig
}

// NewClient decorates provider. cache may be nil to disable caching.
func NewClient(provider Generator, cache *Cache, cfg ClientConfig) *Client {
	return &Client{provider: provider, cache: cache, cfg: cfg.withDefaults()}
}

// Generate runs the provider with retries. Identical prompts within the cache
// TTL are served from the cache without a provider call.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var key string
	if c.cache != nil {
		key = Fingerprint(prompt)
		if text, ok := c.cache.Get(key); ok {
			metrics.IncGenerationCacheHit()
			return text, nil
		}
	}

	text, err := c.attempt(ctx, func(callCtx context.Context) (string, error) {
		return c.provider.Generate(callCtx, prompt)
	})
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		c.cache.Set(key, text)
	}
	return text, nil
}

// GenerateWithAttachment runs the provider with retries. Attachment calls
// bypass the cache: the fingerprint covers only the prompt text, which does
// not discriminate between documents.
func (c *Client) GenerateWithAttachment(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	return c.attempt(ctx, func(callCtx context.Context) (string, error) {
		return c.provider.GenerateWithAttachment(callCtx, data, mimeType, prompt)
	})
}

func (c *Client) attempt(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncGenerationRetry()
			select {
			case <-time.After(c.cfg.Backoff(attempt - 1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		metrics.IncGenerationCall()
		attempts++
		text, err := call(callCtx)
		cancel()

		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty completion")
		}
		if err == nil {
			return text, nil
		}

		lastErr = err
		telemetry.Warn("generation attempt failed", map[string]any{
			"attempt":      attempt,
			"max_attempts": c.cfg.MaxAttempts,
			"err":          err.Error(),
		})

		if !isRetryableGeneration(err) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", &GenerationError{Attempts: attempts, Err: lastErr}
}

// isRetryableGeneration reports whether another provider call could help.
// Timeouts, transport faults, throttling and empty completions are transient;
// everything else is assumed to be a hard provider rejection.
func isRetryableGeneration(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "empty completion"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "temporarily unavailable"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "status 429"),
		strings.Contains(msg, "status 5"):
		return true
	}
	return false
}

var _ Generator = (*Client)(nil)
