package scrape

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/payload"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

	// phoneRe is deliberately permissive and matches long digit runs in
	// ordinary text as well.
	phoneRe = regexp.MustCompile(`(?:(?:\+?\d{1,3}[\s.\-]?)?(?:\(?\d{2,4}\)?[\s.\-]?)?\d{3,4}[\s.\-]?\d{4})`)

	spaceRunRe = regexp.MustCompile(`\s{2,}`)
)

// ContactPaths are fetched relative to the site root. The empty path is the
// site itself.
var ContactPaths = []string{"", "/contact", "/contact-us", "/contacts", "/about", "/about-us", "/impressum", "/support", "/help"}

var contactLinkWords = []string{"contact", "support", "help"}

// ContactCrawler collects emails and phone numbers from a website.
type ContactCrawler struct {
	fetch Fetcher
}

// NewContactCrawler creates a ContactCrawler on top of f.
func NewContactCrawler(f Fetcher) *ContactCrawler {
	return &ContactCrawler{fetch: f}
}

// pageContacts is what one page contributes.
type pageContacts struct {
	emails      []string
	phones      []string
	contactLink string
}

// Fetch crawls the common contact pages of website plus the first
// contact-like link on its homepage. Failed fetches contribute nothing.
func (c *ContactCrawler) Fetch(ctx context.Context, website string) model.ContactSet {
	site := NormalizeSite(website)
	if site == "" {
		return model.ContactSet{}
	}
	u, err := url.Parse(site)
	if err != nil || u.Host == "" {
		zap.L().Debug("contacts: unparseable site", zap.String("site", site), zap.Error(err))
		return model.ContactSet{}
	}
	base := u.Scheme + "://" + u.Host

	emails := map[string]struct{}{}
	phones := map[string]struct{}{}
	merge := func(found pageContacts) {
		for _, e := range found.emails {
			emails[e] = struct{}{}
		}
		for _, p := range found.phones {
			phones[p] = struct{}{}
		}
	}

	for _, path := range ContactPaths {
		if ctx.Err() != nil {
			break
		}
		target := site
		if path != "" {
			target = base + path
		}
		body, ok := c.get(ctx, target)
		if !ok {
			continue
		}
		merge(extract(body, base))
	}

	if home, ok := c.get(ctx, site); ok {
		if link := extract(home, base).contactLink; link != "" {
			if body, ok := c.get(ctx, link); ok {
				merge(extract(body, base))
			}
		}
	}

	return model.ContactSet{
		Emails: cleanEmails(emails),
		Phones: cleanPhones(phones),
	}
}

func (c *ContactCrawler) get(ctx context.Context, target string) (string, bool) {
	body, err := c.fetch.Get(ctx, target)
	if err != nil {
		zap.L().Debug("contacts: fetch failed", zap.String("url", target), zap.Error(err))
		return "", false
	}
	return body, body != ""
}

// NormalizeSite trims the input, prefixes https:// when no scheme is
// present and strips trailing slashes.
func NormalizeSite(site string) string {
	return strings.TrimRight(payload.NormalizeSite(strings.TrimSpace(site)), "/")
}

func extract(body, base string) pageContacts {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return pageContacts{}
	}

	text := VisibleText(doc)
	found := pageContacts{
		emails: emailRe.FindAllString(text, -1),
		phones: phoneRe.FindAllString(text, -1),
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		scheme, rest, ok := strings.Cut(href, ":")
		if !ok {
			return
		}
		switch strings.ToLower(scheme) {
		case "mailto":
			if addr, _, _ := strings.Cut(rest, "?"); addr != "" {
				found.emails = append(found.emails, addr)
			}
		case "tel":
			found.phones = append(found.phones, rest)
		}
	})

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if strings.HasPrefix(strings.ToLower(href), "mailto:") || !mentionsContact(a.Text()) {
			return true
		}
		found.contactLink = resolve(base, href)
		return false
	})

	return found
}

func mentionsContact(text string) bool {
	text = strings.ToLower(text)
	for _, w := range contactLinkWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// VisibleText joins the trimmed, non-empty text nodes of doc with newlines.
// Script, style and template contents are skipped.
func VisibleText(doc *goquery.Document) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template", "noscript":
				return
			}
		case html.CommentNode:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

func cleanEmails(set map[string]struct{}) []string {
	out := map[string]struct{}{}
	for e := range set {
		if !strings.Contains(e, "@") {
			continue
		}
		if e = strings.Trim(strings.TrimSpace(e), "."); e != "" {
			out[e] = struct{}{}
		}
	}
	return sortedKeys(out)
}

func cleanPhones(set map[string]struct{}) []string {
	out := map[string]struct{}{}
	for p := range set {
		if p = strings.TrimSpace(spaceRunRe.ReplaceAllString(p, " ")); p != "" {
			out[p] = struct{}{}
		}
	}
	return sortedKeys(out)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
