package contentsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"marketflow/config"
	"marketflow/types"
)

// contentfulClient is a minimal Contentful Delivery API client. Entries are
// fetched through the query endpoint so linked assets arrive in the same
// response's includes block.
type contentfulClient struct {
	spaceID     string
	accessToken string
	baseURL     string
	client      *http.Client
}

func newContentfulClient(spaceID, accessToken string) *contentfulClient {
	return &contentfulClient{
		spaceID:     spaceID,
		accessToken: accessToken,
		baseURL:     "https://cdn.contentful.com",
		client:      &http.Client{Timeout: config.ContentSourceTimeout},
	}
}

func (c *contentfulClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("contentful request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("contentful error: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkSpace probes the space so misconfigured credentials surface at
// startup rather than on the first activation.
func (c *contentfulClient) checkSpace(ctx context.Context) error {
	var parsed struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/spaces/"+url.PathEscape(c.spaceID), &parsed); err != nil {
		return err
	}
	log.Printf("✅ Live Contentful connected to space: %s", parsed.Name)
	return nil
}

type assetLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type deliveryResponse struct {
	Items []struct {
		Sys    types.RawSys               `json:"sys"`
		Fields map[string]json.RawMessage `json:"fields"`
	} `json:"items"`
	Includes struct {
		Asset []struct {
			Sys    types.RawSys `json:"sys"`
			Fields struct {
				File struct {
					URL string `json:"url"`
				} `json:"file"`
			} `json:"fields"`
		} `json:"Asset"`
	} `json:"includes"`
}

// fetchEntry retrieves one entry and translates its fields onto the
// canonical names the validator expects (aiSummary becomes summary, asset
// links become URLs).
func (c *contentfulClient) fetchEntry(ctx context.Context, entryID string) (types.RawArticle, error) {
	q := url.Values{}
	q.Set("sys.id", entryID)
	q.Set("include", "2")
	path := fmt.Sprintf("/spaces/%s/environments/master/entries?%s", url.PathEscape(c.spaceID), q.Encode())

	var resp deliveryResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return types.RawArticle{}, err
	}
	if len(resp.Items) == 0 {
		return types.RawArticle{}, errors.New("entry not found")
	}

	item := resp.Items[0]
	assetURLs := make(map[string]string, len(resp.Includes.Asset))
	for _, asset := range resp.Includes.Asset {
		assetURLs[asset.Sys.ID] = asset.Fields.File.URL
	}

	fields := types.RawFields{
		Title:        stringField(item.Fields, "title"),
		Body:         stringField(item.Fields, "body"),
		Summary:      stringField(item.Fields, "aiSummary"),
		AltText:      stringField(item.Fields, "altText"),
		CTAText:      stringField(item.Fields, "ctaText"),
		CTAURL:       stringField(item.Fields, "ctaUrl"),
		CampaignTags: stringSliceField(item.Fields, "campaignTags"),
		HasImages:    boolField(item.Fields, "hasImages"),
	}

	if link, ok := linkField(item.Fields, "featuredImage"); ok {
		fields.FeaturedImageURL = assetURLs[link.Sys.ID]
	}
	for _, link := range linkSliceField(item.Fields, "imageGallery") {
		if u := assetURLs[link.Sys.ID]; u != "" {
			fields.GalleryImageURLs = append(fields.GalleryImageURLs, u)
		}
	}

	return types.RawArticle{Sys: item.Sys, Fields: fields}, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func stringSliceField(fields map[string]json.RawMessage, name string) []string {
	var s []string
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func boolField(fields map[string]json.RawMessage, name string) bool {
	var b bool
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

func linkField(fields map[string]json.RawMessage, name string) (assetLink, bool) {
	var link assetLink
	raw, ok := fields[name]
	if !ok {
		return link, false
	}
	if err := json.Unmarshal(raw, &link); err != nil || link.Sys.ID == "" {
		return link, false
	}
	return link, true
}

func linkSliceField(fields map[string]json.RawMessage, name string) []assetLink {
	var links []assetLink
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &links)
	}
	return links
}
