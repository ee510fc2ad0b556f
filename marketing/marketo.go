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
	"sync"
	"time"

	"marketflow/config"
	"marketflow/types"
)

// MarketoPlatform integrates with the Marketo REST API. Access tokens come
// from the Munchkin identity endpoint and are cached until shortly before
// expiry.
type MarketoPlatform struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewMarketoPlatform() (*MarketoPlatform, error) {
	clientID := os.Getenv("MARKETO_CLIENT_ID")
	clientSecret := os.Getenv("MARKETO_CLIENT_SECRET")
	munchkinID := os.Getenv("MARKETO_MUNCHKIN_ID")

	if clientID == "" || clientSecret == "" || munchkinID == "" {
		return nil, errors.New("MARKETO_CLIENT_ID, MARKETO_CLIENT_SECRET and MARKETO_MUNCHKIN_ID are required")
	}

	return &MarketoPlatform{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      fmt.Sprintf("https://%s.mktorest.com", munchkinID),
		client:       &http.Client{Timeout: config.PlatformTimeout},
	}, nil
}

func (m *MarketoPlatform) Name() string { return "marketo" }

func (m *MarketoPlatform) AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	token, err := m.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"input": leads}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/rest/v1/lists/%s/leads.json", m.baseURL, url.PathEscape(listID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketo request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("marketo response decode failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope, fmt.Errorf("marketo error: status %d", resp.StatusCode)
	}
	envelope["platform"] = "marketo"
	return envelope, nil
}

func (m *MarketoPlatform) TestConnection(ctx context.Context) map[string]any {
	if _, err := m.token(ctx); err != nil {
		return map[string]any{
			"success":  false,
			"platform": "marketo",
			"message":  err.Error(),
		}
	}
	return map[string]any{
		"success":  true,
		"platform": "marketo",
		"message":  "Connection successful",
	}
}

// token returns a cached access token, refreshing through the identity
// endpoint when less than a minute of validity remains.
func (m *MarketoPlatform) token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != "" && time.Until(m.tokenExpiry) > time.Minute {
		return m.accessToken, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("client_id", m.clientID)
	q.Set("client_secret", m.clientSecret)
	endpoint := m.baseURL + "/identity/oauth/token?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("marketo token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("marketo token error: status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", errors.New("marketo token response missing access_token")
	}

	m.accessToken = parsed.AccessToken
	m.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	return m.accessToken, nil
}
