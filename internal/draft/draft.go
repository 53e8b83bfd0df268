// Package draft generates LinkedIn post drafts with a text-generation
// provider, switching to a fallback model when the provider reports that
// its quota is exhausted.
package draft

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Generation is one provider response.
type Generation struct {
	Text       string
	Candidates int
}

// Provider is a text-generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, model, prompt string) (*Generation, error)
	IsResourceExhausted(err error) bool
}

// Drafter drafts posts with a primary model and a single fallback. Once it
// switches to the fallback it stays there for its lifetime.
type Drafter struct {
	provider Provider
	fallback string

	mu      sync.Mutex
	current string
}

// NewDrafter creates a Drafter. An empty primary uses the fallback.
func NewDrafter(p Provider, primary, fallback string) *Drafter {
	if primary == "" {
		primary = fallback
	}
	return &Drafter{provider: p, current: primary, fallback: fallback}
}

// Model returns the model the next call will use.
func (d *Drafter) Model() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Draft builds the prompt from in and generates a post.
func (d *Drafter) Draft(ctx context.Context, in PromptInput) (*model.DraftPost, error) {
	return d.Generate(ctx, BuildPrompt(in))
}

// Generate runs prompt through the provider. A resource-exhausted error
// on a non-fallback model switches to the fallback and retries once.
func (d *Drafter) Generate(ctx context.Context, prompt string) (*model.DraftPost, error) {
	current := d.Model()
	gen, err := d.provider.Generate(ctx, current, prompt)
	if err != nil {
		if !d.provider.IsResourceExhausted(err) || current == d.fallback || d.fallback == "" {
			return nil, eris.Wrapf(err, "draft: %s generate with %s", d.provider.Name(), current)
		}

		zap.L().Warn("draft: resource exhausted, switching to fallback model",
			zap.String("provider", d.provider.Name()),
			zap.String("model", current),
			zap.String("fallback", d.fallback),
			zap.Error(err),
		)
		d.mu.Lock()
		d.current = d.fallback
		d.mu.Unlock()
		current = d.fallback

		gen, err = d.provider.Generate(ctx, current, prompt)
		if err != nil {
			return nil, eris.Wrapf(err, "draft: %s generate with fallback %s", d.provider.Name(), current)
		}
	}

	return &model.DraftPost{
		Text:           CleanText(gen.Text),
		Model:          current,
		CandidateCount: gen.Candidates,
	}, nil
}

// CleanText removes code fences and surrounding whitespace.
func CleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}
