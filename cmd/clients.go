package main

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/collect"
	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/discovery"
	"github.com/sells-group/prospect-cli/internal/draft"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/brightdata"
	"github.com/sells-group/prospect-cli/pkg/gemini"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
)

// newEnricher wires discovery and collection to one Bright Data session.
func newEnricher(c *config.Config) *pipeline.Enricher {
	bd := brightdata.NewClient(c.BrightData.Key, brightdata.WithBaseURL(c.BrightData.BaseURL))
	return pipeline.NewEnricher(
		discovery.New(bd, c.BrightData.Zone, discovery.WithSearchURL(c.BrightData.SearchURL)),
		collect.New(bd, c.BrightData.DatasetID),
	)
}

func newContactCrawler(c *config.Config) *scrape.ContactCrawler {
	return scrape.NewContactCrawler(scrape.NewSession(c.Crawl.UserAgent, scrape.WithRateLimit(c.Crawl.RequestsPerSecond)))
}

// newDrafter builds the drafter for the configured provider.
func newDrafter(ctx context.Context, c *config.Config) (*draft.Drafter, error) {
	switch c.Draft.Provider {
	case "gemini":
		p, err := gemini.New(ctx, gemini.Config{APIKey: c.Gemini.Key, BaseURL: c.Gemini.BaseURL})
		if err != nil {
			return nil, err
		}
		return draft.NewDrafter(p, c.Gemini.Model, c.Gemini.FallbackModel), nil
	case "anthropic":
		var opts []option.RequestOption
		if c.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.Anthropic.BaseURL))
		}
		p := anthropic.NewProvider(anthropic.NewClient(c.Anthropic.Key, opts...))
		return draft.NewDrafter(p, c.Anthropic.Model, c.Anthropic.FallbackModel), nil
	}
	return nil, eris.Errorf("unknown draft provider %q", c.Draft.Provider)
}

// newPoster builds the LinkedIn client. memberURN is the explicit override
// from the command line.
func newPoster(c *config.Config, memberURN string) *linkedin.Client {
	opts := []linkedin.Option{linkedin.WithConfiguredMemberURN(c.LinkedIn.MemberURN)}
	if c.LinkedIn.BaseURL != "" {
		opts = append(opts, linkedin.WithBaseURL(c.LinkedIn.BaseURL))
	}
	if memberURN != "" {
		opts = append(opts, linkedin.WithMemberURN(memberURN))
	}
	return linkedin.NewClient(c.LinkedIn.AccessToken, opts...)
}
