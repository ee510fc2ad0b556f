package contentsource

import "marketflow/types"

// StubArticle is the built-in sample served when no live CMS is reachable.
// It passes validation as-is so the full pipeline works offline.
func StubArticle(entryID string) types.RawArticle {
	return types.RawArticle{
		Sys: types.RawSys{ID: entryID},
		Fields: types.RawFields{
			Title:        "Sample Marketing Article",
			Body:         "This is a sample article body with sufficient length to meet validation requirements. Marketing automation is transforming how businesses engage with prospects and customers across the entire lifecycle.",
			Summary:      "Brief overview of marketing automation benefits",
			CampaignTags: []string{"thought-leadership", "marketer", "awareness"},
			HasImages:    true,
			AltText:      "Marketing automation dashboard screenshot",
			CTAText:      "Learn More",
			CTAURL:       "https://example.com/learn-more",
		},
	}
}
