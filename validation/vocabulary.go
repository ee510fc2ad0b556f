package validation

import "sort"

// Controlled vocabulary for campaign tags, grouped into four semantic axes.
// The set is closed: any tag outside it is a hard validation failure.
var allowedCampaignTags = map[string]struct{}{
	// Content types
	"product-launch":     {},
	"thought-leadership": {},
	"case-study":         {},
	"webinar":            {},
	"ebook":              {},
	"release-notes":      {},
	"tutorial":           {},
	"whitepaper":         {},
	"demo":               {},
	"blog-post":          {},
	// Audience segments
	"developer":                {},
	"marketer":                 {},
	"enterprise":               {},
	"startup":                  {},
	"technical-decision-maker": {},
	"content-creator":          {},
	"product-manager":          {},
	"executive":                {},
	// Funnel stages
	"awareness":     {},
	"consideration": {},
	"decision":      {},
	"retention":     {},
	"advocacy":      {},
	// Campaign types
	"demand-gen":               {},
	"brand-awareness":          {},
	"product-adoption":         {},
	"customer-success":         {},
	"lead-nurture":             {},
	"competitive-intelligence": {},
}

// AllowedCampaignTags returns the sorted controlled vocabulary.
func AllowedCampaignTags() []string {
	tags := make([]string, 0, len(allowedCampaignTags))
	for tag := range allowedCampaignTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsAllowedTag reports whether tag belongs to the controlled vocabulary.
func IsAllowedTag(tag string) bool {
	_, ok := allowedCampaignTags[tag]
	return ok
}
