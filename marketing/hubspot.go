package marketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"marketflow/config"
	"marketflow/types"
)

// HubSpotPlatform integrates with the HubSpot CRM API. Leads map onto
// contacts (created or updated by email) which are then added to a static
// list. The response envelope stays Marketo-compatible.
type HubSpotPlatform struct {
	accessToken string
	portalID    string
	baseURL     string
	client      *http.Client
}

func NewHubSpotPlatform() (*HubSpotPlatform, error) {
	accessToken := os.Getenv("HUBSPOT_ACCESS_TOKEN")
	if accessToken == "" {
		return nil, errors.New("HUBSPOT_ACCESS_TOKEN is required")
	}
	return &HubSpotPlatform{
		accessToken: accessToken,
		portalID:    os.Getenv("HUBSPOT_PORTAL_ID"),
		baseURL:     "https://api.hubapi.com",
		client:      &http.Client{Timeout: config.PlatformTimeout},
	}, nil
}

func (h *HubSpotPlatform) Name() string { return "hubspot" }

func (h *HubSpotPlatform) AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	requestID := fmt.Sprintf("hubspot_activation_%s", listID)

	processed := make([]any, 0, len(leads))
	contactIDs := make([]string, 0, len(leads))

	for _, lead := range leads {
		if lead.Email == "" {
			continue
		}

		properties := map[string]any{
			"firstname":      orDefault(lead.FirstName, "Demo"),
			"lastname":       orDefault(lead.LastName, "Lead"),
			"lifecyclestage": "lead",
		}
		if lead.ContentTitle != "" {
			properties["last_content_engaged"] = lead.ContentTitle
		}
		if lead.CampaignTags != "" {
			properties["campaign_tags"] = lead.CampaignTags
		}

		contactID, err := h.createOrUpdateContact(ctx, lead.Email, properties)
		if err != nil {
			return map[string]any{
				"requestId": requestID,
				"success":   false,
				"error":     fmt.Sprintf("HubSpot integration error: %v", err),
				"platform":  "hubspot",
			}, err
		}

		contactIDs = append(contactIDs, contactID)
		processed = append(processed, map[string]any{
			"id":     contactID,
			"email":  lead.Email,
			"status": "processed",
		})
	}

	if len(contactIDs) == 0 {
		return map[string]any{
			"requestId": requestID,
			"success":   false,
			"error":     "No valid contacts to process",
			"platform":  "hubspot",
		}, errors.New("no valid contacts to process")
	}

	memberships := make([]any, 0, len(contactIDs))
	for _, id := range contactIDs {
		memberships = append(memberships, map[string]any{"contact-id": id})
	}
	endpoint := fmt.Sprintf("/contacts/v1/lists/%s/add", url.PathEscape(listID))
	if _, _, err := h.request(ctx, http.MethodPut, endpoint, map[string]any{"memberships": memberships}); err != nil {
		return map[string]any{
			"requestId": requestID,
			"success":   false,
			"error":     fmt.Sprintf("HubSpot integration error: %v", err),
			"platform":  "hubspot",
		}, err
	}

	return map[string]any{
		"requestId":          requestID,
		"success":            true,
		"result":             processed,
		"contacts_processed": len(processed),
		"list_id":            listID,
		"platform":           "hubspot",
	}, nil
}

func (h *HubSpotPlatform) TestConnection(ctx context.Context) map[string]any {
	_, _, err := h.request(ctx, http.MethodGet, "/crm/v3/objects/contacts?limit=1", nil)
	if err != nil {
		return map[string]any{
			"success":   false,
			"platform":  "hubspot",
			"portal_id": h.portalID,
			"message":   err.Error(),
		}
	}
	return map[string]any{
		"success":   true,
		"platform":  "hubspot",
		"portal_id": h.portalID,
		"message":   "Connection successful",
	}
}

// createOrUpdateContact creates a contact keyed by email. A 409 means the
// contact already exists; it is then looked up through the search endpoint
// and updated in place.
func (h *HubSpotPlatform) createOrUpdateContact(ctx context.Context, email string, properties map[string]any) (string, error) {
	props := map[string]any{"email": email}
	for k, v := range properties {
		props[k] = v
	}
	contactData := map[string]any{"properties": props}

	result, status, err := h.request(ctx, http.MethodPost, "/crm/v3/objects/contacts", contactData)
	if err != nil {
		if status != http.StatusConflict {
			return "", err
		}
		contactID, lookupErr := h.contactIDByEmail(ctx, email)
		if lookupErr != nil {
			return "", lookupErr
		}
		result, _, err = h.request(ctx, http.MethodPut, "/crm/v3/objects/contacts/"+contactID, contactData)
		if err != nil {
			return "", err
		}
	}

	id, _ := result["id"].(string)
	if id == "" {
		return "", errors.New("hubspot contact response missing id")
	}
	return id, nil
}

func (h *HubSpotPlatform) contactIDByEmail(ctx context.Context, email string) (string, error) {
	searchData := map[string]any{
		"filterGroups": []any{
			map[string]any{
				"filters": []any{
					map[string]any{
						"propertyName": "email",
						"operator":     "EQ",
						"value":        email,
					},
				},
			},
		},
	}

	result, _, err := h.request(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", searchData)
	if err != nil {
		return "", err
	}

	results, _ := result["results"].([]any)
	if len(results) == 0 {
		return "", fmt.Errorf("no hubspot contact found for %s", email)
	}
	first, _ := results[0].(map[string]any)
	id, _ := first["id"].(string)
	if id == "" {
		return "", errors.New("hubspot search result missing id")
	}
	return id, nil
}

// request performs one API call and returns the parsed envelope together
// with the HTTP status code so callers can branch on statuses like 409
// without parsing error text. Transport failures report status 0.
func (h *HubSpotPlatform) request(ctx context.Context, method, endpoint string, data any) (map[string]any, int, error) {
	var body *bytes.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+endpoint, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+h.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HubSpot API error: %w", err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && resp.StatusCode < 300 {
		return nil, resp.StatusCode, fmt.Errorf("HubSpot API error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, _ := parsed["message"].(string)
		return parsed, resp.StatusCode, fmt.Errorf("HubSpot API error: status %d: %s", resp.StatusCode, message)
	}
	return parsed, resp.StatusCode, nil
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
