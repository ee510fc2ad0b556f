package types

import "time"

// ActivationRequest is the inbound payload for a single activation run.
// EnrichmentEnabled is a pointer so an omitted field defaults to true.
type ActivationRequest struct {
	EntryID           string `json:"entry_id" binding:"required"`
	MarketoListID     string `json:"marketo_list_id" binding:"required"`
	EnrichmentEnabled *bool  `json:"enrichment_enabled"`
}

// EnrichmentWanted reports whether the caller opted into AI enrichment.
func (r *ActivationRequest) EnrichmentWanted() bool {
	return r.EnrichmentEnabled == nil || *r.EnrichmentEnabled
}

// ActivationResult is the outcome of one activation. It is always produced,
// appended to the audit log exactly once, and immutable afterwards. Status is
// "error" if and only if Errors is non-empty.
type ActivationResult struct {
	ActivationID    string             `json:"activation_id"`
	EntryID         string             `json:"entry_id"`
	Status          string             `json:"status"`
	ProcessingTime  float64            `json:"processing_time"`
	EnrichmentData  *EnrichmentPayload `json:"enrichment_data"`
	MarketoResponse map[string]any     `json:"marketo_response"`
	Errors          []string           `json:"errors,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`

	// ValidationFailed distinguishes a client input error from upstream
	// failures so the HTTP layer can answer 400 instead of 200. Not part of
	// the wire format.
	ValidationFailed bool `json:"-"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Lead is the synthetic record forwarded to the marketing platform.
type Lead struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ContentTitle string `json:"contentTitle"`
	CampaignTags string `json:"campaignTags"`
}
