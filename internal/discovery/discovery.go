// Package discovery resolves business names to LinkedIn company pages and
// official websites through the Bright Data SERP proxy.
package discovery

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/brightdata"
)

const (
	// SearchAttempts is the number of SERP requests made per lookup.
	SearchAttempts = 4

	companyPattern = "linkedin.com/company"
	linkedInDomain = "linkedin.com"
	defaultSearch  = "https://www.google.com/search"
)

// Discoverer runs name lookups against the search proxy.
type Discoverer struct {
	client    brightdata.Client
	zone      string
	searchURL string
	retry     resilience.RetryConfig
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithSearchURL overrides the search-engine results URL the proxy fetches.
func WithSearchURL(u string) Option {
	return func(d *Discoverer) {
		if u != "" {
			d.searchURL = u
		}
	}
}

// WithRetryConfig overrides the retry policy. The retry predicate is always
// replaced by the discovery classification.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(d *Discoverer) {
		d.retry = cfg
	}
}

// New creates a Discoverer that searches through the given SERP zone.
func New(client brightdata.Client, zone string, opts ...Option) *Discoverer {
	d := &Discoverer{
		client:    client,
		zone:      zone,
		searchURL: defaultSearch,
		retry:     resilience.StepRetryConfig(SearchAttempts),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CompanyURL returns the first LinkedIn company page found for name, with
// its query string removed. ok is false when nothing matched or every
// attempt failed.
func (d *Discoverer) CompanyURL(ctx context.Context, name string) (string, bool) {
	link, ok := d.searchFirst(ctx, "company_url", "site:linkedin.com/company "+name, func(link string) bool {
		return strings.Contains(link, companyPattern)
	})
	if !ok {
		zap.L().Info("discovery: no linkedin company result", zap.String("business", name))
		return "", false
	}
	zap.L().Debug("discovery: company page found", zap.String("business", name), zap.String("url", link))
	return link, true
}

// OfficialSite returns the first absolute non-LinkedIn organic result for
// an "official site" search.
func (d *Discoverer) OfficialSite(ctx context.Context, name string) (string, bool) {
	return d.searchFirst(ctx, "official_site", name+" official site -site:linkedin.com", func(link string) bool {
		return strings.HasPrefix(link, "http") && !strings.Contains(link, linkedInDomain)
	})
}

// searchFirst issues query with retries and returns the first organic link
// accepted by match. A successful response without a match is final.
func (d *Discoverer) searchFirst(ctx context.Context, op, query string, match func(string) bool) (string, bool) {
	cfg := d.retry
	cfg.ShouldRetry = retryable
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("brightdata", op)
	}

	req := brightdata.SearchRequest{
		Zone:   d.zone,
		URL:    brightdata.GoogleSearchURL(d.searchURL, query),
		Format: "raw",
	}
	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*brightdata.SearchResponse, error) {
		return d.client.Search(ctx, req)
	})
	if err != nil {
		zap.L().Error("discovery: search failed",
			zap.String("operation", op),
			zap.String("query", query),
			zap.Error(err),
		)
		return "", false
	}

	for _, item := range resp.Organic {
		if item.Link != "" && match(item.Link) {
			return StripQuery(item.Link), true
		}
	}
	return "", false
}

// StripQuery drops everything from the first "?".
func StripQuery(link string) string {
	return strings.SplitN(link, "?", 2)[0]
}

// retryable treats provider status failures and malformed bodies like
// network faults.
func retryable(err error) bool {
	var apiErr *brightdata.APIError
	if errors.As(err, &apiErr) || errors.Is(err, brightdata.ErrMalformedResponse) {
		return true
	}
	return resilience.IsTransient(err)
}
