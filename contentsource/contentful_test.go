package contentsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const deliveryPayload = `{
  "items": [
    {
      "sys": {"id": "entry-1"},
      "fields": {
        "title": "Automation Playbook",
        "body": "Long body text",
        "aiSummary": "AI generated summary",
        "campaignTags": ["thought-leadership", "awareness"],
        "hasImages": true,
        "altText": "Dashboard",
        "ctaText": "Read more",
        "ctaUrl": "https://example.com/playbook",
        "featuredImage": {"sys": {"id": "asset-1"}},
        "imageGallery": [{"sys": {"id": "asset-2"}}, {"sys": {"id": "asset-missing"}}]
      }
    }
  ],
  "includes": {
    "Asset": [
      {"sys": {"id": "asset-1"}, "fields": {"file": {"url": "//images.ctfassets.net/hero.png"}}},
      {"sys": {"id": "asset-2"}, "fields": {"file": {"url": "//images.ctfassets.net/gallery-1.png"}}}
    ]
  }
}`

func newDeliveryServer(t *testing.T, status int, payload string) (*httptest.Server, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func testClient(baseURL string) *contentfulClient {
	return &contentfulClient{
		spaceID:     "space-1",
		accessToken: "token-1",
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

func TestFetchEntryMapsFields(t *testing.T) {
	srv, seen := newDeliveryServer(t, http.StatusOK, deliveryPayload)

	raw, err := testClient(srv.URL).fetchEntry(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("fetchEntry: %v", err)
	}

	if got := seen.Header.Get("Authorization"); got != "Bearer token-1" {
		t.Fatalf("authorization = %q", got)
	}
	q := seen.URL.Query()
	if q.Get("sys.id") != "entry-1" || q.Get("include") != "2" {
		t.Fatalf("query = %v", q)
	}

	f := raw.Fields
	if raw.Sys.ID != "entry-1" || f.Title != "Automation Playbook" {
		t.Fatalf("raw = %+v", raw)
	}
	if f.Summary != "AI generated summary" {
		t.Fatalf("aiSummary not mapped onto summary: %q", f.Summary)
	}
	if !f.HasImages || f.AltText != "Dashboard" {
		t.Fatalf("image fields = %+v", f)
	}
	if f.FeaturedImageURL != "//images.ctfassets.net/hero.png" {
		t.Fatalf("featured image = %q", f.FeaturedImageURL)
	}
	// Links pointing at assets absent from includes are dropped.
	if len(f.GalleryImageURLs) != 1 || f.GalleryImageURLs[0] != "//images.ctfassets.net/gallery-1.png" {
		t.Fatalf("gallery = %v", f.GalleryImageURLs)
	}
	if len(f.CampaignTags) != 2 || f.CampaignTags[0] != "thought-leadership" {
		t.Fatalf("tags = %v", f.CampaignTags)
	}
}

func TestFetchEntryNotFound(t *testing.T) {
	srv, _ := newDeliveryServer(t, http.StatusOK, `{"items": []}`)

	if _, err := testClient(srv.URL).fetchEntry(context.Background(), "missing"); err == nil {
		t.Fatalf("fetchEntry returned nil error for empty items")
	}
}

func TestFetchEntryUpstreamError(t *testing.T) {
	srv, _ := newDeliveryServer(t, http.StatusUnauthorized, `{}`)

	if _, err := testClient(srv.URL).fetchEntry(context.Background(), "entry-1"); err == nil {
		t.Fatalf("fetchEntry returned nil error on status 401")
	}
}

func TestGetArticleFallsBackToStub(t *testing.T) {
	srv, _ := newDeliveryServer(t, http.StatusInternalServerError, `{}`)
	source := &Source{client: testClient(srv.URL), liveMode: true}

	raw := source.GetArticle(context.Background(), "entry-1")
	if raw.Fields.Title != "Sample Marketing Article" {
		t.Fatalf("expected stub fallback, got %+v", raw.Fields)
	}
	if raw.Sys.ID != "entry-1" {
		t.Fatalf("stub entry id = %q", raw.Sys.ID)
	}
}

func TestStubSourceServesSample(t *testing.T) {
	source := NewStubSource(nil)
	if source.LiveMode() {
		t.Fatalf("stub source reports live mode")
	}
	raw := source.GetArticle(context.Background(), "any-entry")
	if raw.Fields.Title != "Sample Marketing Article" || len(raw.Fields.CampaignTags) == 0 {
		t.Fatalf("stub article = %+v", raw.Fields)
	}
}
