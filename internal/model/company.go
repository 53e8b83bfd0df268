package model

import "strings"

// Status is the terminal outcome of enriching one business name.
type Status string

const (
	StatusOK               Status = "ok"
	StatusNoWebsiteFound   Status = "no_website_found"
	StatusSiteFallbackOnly Status = "no_linkedin_but_site_fallback"
	StatusError            Status = "error"
)

// EnrichmentResult is produced once per input name and never mutated.
type EnrichmentResult struct {
	BusinessName       string `json:"business_name"`
	LinkedInCompanyURL string `json:"linkedin_company_url"`
	Website            string `json:"website"`
	Status             Status `json:"status"`
}

// HasWebsite reports whether a website was resolved.
func (r EnrichmentResult) HasWebsite() bool {
	return r.Website != ""
}

// Row is one line of the enrichment output file.
type Row struct {
	BusinessName       string `csv:"business_name" json:"business_name"`
	LinkedInCompanyURL string `csv:"linkedin_company_url" json:"linkedin_company_url"`
	Website            string `csv:"website" json:"website"`
	Emails             string `csv:"emails" json:"emails"`
	Phones             string `csv:"phones" json:"phones"`
	Status             Status `csv:"status" json:"status"`
}

// ListSeparator joins multi-valued cells.
const ListSeparator = "; "

// NewRow flattens a result and its contacts into an output row.
func NewRow(res EnrichmentResult, contacts ContactSet) Row {
	return Row{
		BusinessName:       res.BusinessName,
		LinkedInCompanyURL: res.LinkedInCompanyURL,
		Website:            res.Website,
		Emails:             strings.Join(contacts.Emails, ListSeparator),
		Phones:             strings.Join(contacts.Phones, ListSeparator),
		Status:             res.Status,
	}
}
