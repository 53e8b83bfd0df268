package anthropic

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/draft"
)

const defaultMaxTokens = 1024

// Provider adapts Client to the drafting provider interface.
type Provider struct {
	client    Client
	maxTokens int64
}

// NewProvider creates a drafting provider backed by c.
func NewProvider(c Client) *Provider {
	return &Provider{client: c, maxTokens: defaultMaxTokens}
}

// Name implements draft.Provider.
func (p *Provider) Name() string { return "anthropic" }

// Generate implements draft.Provider.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (*draft.Generation, error) {
	resp, err := p.client.CreateMessage(ctx, MessageRequest{
		Model:     model,
		MaxTokens: p.maxTokens,
		Prompt:    prompt,
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(model, "draft")

	candidates := 0
	if len(resp.Blocks) > 0 {
		candidates = 1
	}
	return &draft.Generation{Text: resp.Text(), Candidates: candidates}, nil
}

// IsResourceExhausted implements draft.Provider.
func (p *Provider) IsResourceExhausted(err error) bool {
	return IsRateLimited(err)
}
