// Package gemini is the Google Gemini text-generation provider, built on the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/sells-group/prospect-cli/internal/draft"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// Config configures the provider.
type Config struct {
	APIKey string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string

	// HTTPClient overrides the SDK's HTTP client.
	HTTPClient *http.Client
}

// Provider generates text with Gemini models.
type Provider struct {
	client *genai.Client
}

// New creates a Provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &Provider{client: client}, nil
}

// Name implements draft.Provider.
func (p *Provider) Name() string { return "gemini" }

// Generate implements draft.Provider.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (*draft.Generation, error) {
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}
	return &draft.Generation{
		Text:       resp.Text(),
		Candidates: len(resp.Candidates),
	}, nil
}

// IsResourceExhausted implements draft.Provider.
func (p *Provider) IsResourceExhausted(err error) bool {
	return IsResourceExhausted(err)
}

// IsResourceExhausted reports whether err is a Gemini quota error: HTTP 429
// or status RESOURCE_EXHAUSTED.
func IsResourceExhausted(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return exhausted(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return exhausted(*apiErrPtr)
	}
	return false
}

func exhausted(e genai.APIError) bool {
	return e.Code == http.StatusTooManyRequests || e.Status == statusResourceExhausted
}
