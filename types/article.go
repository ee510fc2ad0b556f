package types

// Article is a CMS article after validation. Constructed fresh per request
// from raw CMS fields and discarded once the activation completes.
type Article struct {
	Title        string   `json:"title" validate:"required,max=70"`
	Body         string   `json:"body" validate:"required,min=100"`
	Summary      string   `json:"summary,omitempty" validate:"max=160"`
	CampaignTags []string `json:"campaign_tags" validate:"required,min=1"`
	AltText      string   `json:"alt_text,omitempty"`
	HasImages    bool     `json:"has_images"`
	CTAText      string   `json:"cta_text,omitempty" validate:"max=80"`
	CTAURL       string   `json:"cta_url,omitempty"`
	ContentType  string   `json:"content_type"`
}

// RawArticle is the untyped shape returned by the content source before
// validation. Field names follow the CMS (camelCase).
type RawArticle struct {
	Sys    RawSys    `json:"sys"`
	Fields RawFields `json:"fields"`
}

type RawSys struct {
	ID string `json:"id"`
}

// RawFields carries the canonical field names the validator expects. The
// content source is responsible for translating provider-specific names
// (e.g. aiSummary) onto these.
type RawFields struct {
	Title            string   `json:"title"`
	Body             string   `json:"body"`
	Summary          string   `json:"summary,omitempty"`
	CampaignTags     []string `json:"campaignTags"`
	HasImages        bool     `json:"hasImages"`
	AltText          string   `json:"altText,omitempty"`
	CTAText          string   `json:"ctaText,omitempty"`
	CTAURL           string   `json:"ctaUrl,omitempty"`
	FeaturedImageURL string   `json:"featuredImageUrl,omitempty"`
	GalleryImageURLs []string `json:"galleryImageUrls,omitempty"`
}
