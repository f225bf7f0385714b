package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"recruit-backend/internal/llm"
)

// Client calls the Gemini API through the genai SDK.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed provider. Close must be called when the
// client is no longer needed.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.generativeModel()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return textFromResponse(resp)
}

// GenerateWithAttachment sends the document inline with the prompt.
func (c *Client) GenerateWithAttachment(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("attachment is empty")
	}
	model := c.generativeModel()
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generate content with attachment: %w", err)
	}
	return textFromResponse(resp)
}

func (c *Client) generativeModel() *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	// Low temperature keeps the JSON output shape stable across calls.
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"
	return model
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no candidates in response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}

var _ llm.Generator = (*Client)(nil)
