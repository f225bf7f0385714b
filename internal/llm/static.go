package llm

import "context"

// StaticProvider returns a fixed completion for every call. It backs
// local development runs that have no provider credentials.
type StaticProvider struct {
	Completion string
}

func (p *StaticProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Completion, nil
}

func (p *StaticProvider) GenerateWithAttachment(ctx context.Context, data []byte, mimeType string, prompt string) (string, error) {
	return p.Generate(ctx, prompt)
}

var _ Generator = (*StaticProvider)(nil)
