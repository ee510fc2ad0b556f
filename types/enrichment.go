package types

// EnrichmentPayload standardizes the structure returned by every AI provider.
// A failed provider call still yields a valid payload carrying Error and
// Fallback instead of surfacing the failure to the caller.
type EnrichmentPayload struct {
	SEOScore                 int                 `json:"seo_score"`
	ReadabilityScore         int                 `json:"readability_score,omitempty"`
	SuggestedMetaDescription string              `json:"suggested_meta_description"`
	Keywords                 []string            `json:"keywords"`
	KeywordDensity           map[string]float64  `json:"keyword_density,omitempty"`
	ToneAnalysis             map[string]float64  `json:"tone_analysis,omitempty"`
	ContentGaps              []string            `json:"content_gaps,omitempty"`
	Error                    string              `json:"error,omitempty"`
	Fallback                 bool                `json:"fallback,omitempty"`
	Provider                 string              `json:"provider,omitempty"`
	Mock                     bool                `json:"mock,omitempty"`
	GeneratedAltText         string              `json:"generated_alt_text,omitempty"`
	BrandVoice               *BrandVoiceAdvisory `json:"brand_voice,omitempty"`
}

// Tone analysis axis names shared by providers and the brand-voice check.
const (
	ToneProfessional   = "professional"
	ToneConfident      = "confident"
	ToneActionOriented = "action_oriented"
)

// BrandVoiceAdvisory is the derived pass/advisory/attention verdict computed
// from tone-analysis scores. Never persisted on its own.
type BrandVoiceAdvisory struct {
	Professionalism   string `json:"professionalism"`
	Confidence        string `json:"confidence"`
	ActionOrientation string `json:"action_orientation"`
	Overall           string `json:"overall"`
}

const (
	VerdictPass      = "pass"
	VerdictAdvisory  = "advisory"
	VerdictAttention = "attention"
)
