package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketflow/marketing"
	"marketflow/types"
)

// ActivationClient is a thin HTTP client for the activation API
type ActivationClient struct {
	baseURL string
	client  *http.Client
}

// NewActivationClient creates a new activation client. The timeout is
// generous because an activation with live AI enrichment can take a while.
func NewActivationClient(baseURL string) *ActivationClient {
	return &ActivationClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Activate runs one activation. Both 200 and 400 answers carry a full
// activation result, so they decode the same way.
func (c *ActivationClient) Activate(entryID, listID string, enrichment bool) (*types.ActivationResult, error) {
	body, err := json.Marshal(types.ActivationRequest{
		EntryID:           entryID,
		MarketoListID:     listID,
		EnrichmentEnabled: &enrichment,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.baseURL+"/activate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to activate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	var result types.ActivationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// LatestLog fetches the most recent audit record for an entry
func (c *ActivationClient) LatestLog(entryID string) (*types.ActivationResult, error) {
	resp, err := c.client.Get(c.baseURL + "/activation-log/" + entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activation log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	var record types.ActivationResult
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &record, nil
}

// PlatformInfo fetches the marketing platform configuration
func (c *ActivationClient) PlatformInfo() (*marketing.PlatformInfo, error) {
	resp, err := c.client.Get(c.baseURL + "/platform")
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	var info marketing.PlatformInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &info, nil
}
