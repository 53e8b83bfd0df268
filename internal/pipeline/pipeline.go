// Package pipeline composes discovery, collection, website extraction and
// contact crawling into one result per business name.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/payload"
)

// Discovery resolves names through the search proxy.
type Discovery interface {
	CompanyURL(ctx context.Context, name string) (string, bool)
	OfficialSite(ctx context.Context, name string) (string, bool)
}

// Collector fetches the company payload for a LinkedIn company page.
type Collector interface {
	Collect(ctx context.Context, companyURL string) payload.Value
}

// ContactFetcher crawls a website for contact details.
type ContactFetcher interface {
	Fetch(ctx context.Context, website string) model.ContactSet
}

// Enricher runs the per-name resolution chain.
type Enricher struct {
	discovery Discovery
	collector Collector
}

// NewEnricher creates an Enricher.
func NewEnricher(d Discovery, c Collector) *Enricher {
	return &Enricher{discovery: d, collector: c}
}

// Enrich resolves name to a company page and website. It never fails; the
// outcome is recorded in the result's Status.
func (e *Enricher) Enrich(ctx context.Context, name string) model.EnrichmentResult {
	log := zap.L().With(zap.String("business", name))

	companyURL, ok := e.discovery.CompanyURL(ctx, name)
	if !ok {
		website, _ := e.discovery.OfficialSite(ctx, name)
		res := model.EnrichmentResult{
			BusinessName: name,
			Website:      website,
			Status:       model.StatusSiteFallbackOnly,
		}
		return finish(ctx, log, res)
	}

	website := payload.ExtractWebsite(e.collector.Collect(ctx, companyURL))
	if website == "" {
		log.Info("pipeline: no website in payload, searching for official site")
		website, _ = e.discovery.OfficialSite(ctx, name)
	}

	res := model.EnrichmentResult{
		BusinessName:       name,
		LinkedInCompanyURL: companyURL,
		Website:            website,
		Status:             model.StatusNoWebsiteFound,
	}
	if res.HasWebsite() {
		res.Status = model.StatusOK
	}
	return finish(ctx, log, res)
}

// finish marks a result interrupted by cancellation as an error.
func finish(ctx context.Context, log *zap.Logger, res model.EnrichmentResult) model.EnrichmentResult {
	if ctx.Err() != nil {
		res.Status = model.StatusError
	}
	log.Info("pipeline: enrichment complete",
		zap.String("status", string(res.Status)),
		zap.String("linkedin", res.LinkedInCompanyURL),
		zap.String("website", res.Website),
	)
	return res
}
