package payload

import "strings"

// WebsiteFields are probed in order; the first non-empty scalar wins.
var WebsiteFields = []string{
	"website",
	"company_website",
	"site",
	"official_website",
	"companyWebsite",
	"siteUrl",
}

// ContainerFields hold record lists; only their first element is probed.
var ContainerFields = []string{
	"results",
	"data",
	"items",
	"payload",
	"records",
}

// ProbeRule locates a candidate object inside a payload.
type ProbeRule struct {
	Name   string
	Locate func(root Value) (Value, bool)
}

// WebsiteRules is the ordered probe plan: the root object, then the first
// element of each container, then the first element of a root array.
var WebsiteRules = buildWebsiteRules()

func buildWebsiteRules() []ProbeRule {
	rules := []ProbeRule{{
		Name:   "root",
		Locate: func(root Value) (Value, bool) { return root, root.Kind() == Object },
	}}
	for _, container := range ContainerFields {
		rules = append(rules, ProbeRule{
			Name: container + "[0]",
			Locate: func(root Value) (Value, bool) {
				c, ok := root.Field(container)
				if !ok || len(c.Items()) == 0 {
					return Value{}, false
				}
				return c.Items()[0], true
			},
		})
	}
	rules = append(rules, ProbeRule{
		Name: "[0]",
		Locate: func(root Value) (Value, bool) {
			if len(root.Items()) == 0 {
				return Value{}, false
			}
			return root.Items()[0], true
		},
	})
	return rules
}

// FirstField returns the first non-empty scalar among names on obj.
func FirstField(obj Value, names []string) (string, bool) {
	for _, name := range names {
		f, ok := obj.Field(name)
		if !ok {
			continue
		}
		if s, ok := f.Scalar(); ok {
			return s, true
		}
	}
	return "", false
}

// FindWebsite runs WebsiteRules and returns the raw trimmed match and the
// rule that produced it.
func FindWebsite(root Value) (site, rule string) {
	for _, r := range WebsiteRules {
		obj, ok := r.Locate(root)
		if !ok {
			continue
		}
		if s, ok := FirstField(obj, WebsiteFields); ok {
			return strings.TrimSpace(s), r.Name
		}
	}
	return "", ""
}

// ExtractWebsite returns the company website from a payload, or "". A value
// without an http(s) prefix is normalized to https://.
func ExtractWebsite(root Value) string {
	site, _ := FindWebsite(root)
	return NormalizeSite(site)
}

// NormalizeSite prefixes https:// on a non-empty value that does not start
// with "http".
func NormalizeSite(site string) string {
	if site == "" || strings.HasPrefix(site, "http") {
		return site
	}
	return "https://" + strings.TrimLeft(site, "/")
}
