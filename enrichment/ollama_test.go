package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketflow/types"
)

func testArticle() *types.Article {
	return &types.Article{
		Title:        "Marketing Automation Guide",
		Body:         strings.Repeat("Marketing automation transforms how teams engage prospects. ", 4),
		CampaignTags: []string{"thought-leadership", "marketer"},
	}
}

func TestOllamaEnrichContent(t *testing.T) {
	responses := []string{
		`Meta description: "Discover how marketing automation transforms engagement."`,
		`Keywords: Marketing, automation, AI, engagement, prospects, a, of`,
	}
	call := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			w.WriteHeader(http.StatusOK)
			return
		}
		resp := responses[call]
		call++
		json.NewEncoder(w).Encode(map[string]any{"response": resp})
	}))
	defer srv.Close()

	p := NewOllamaProvider("llama3.2:latest", srv.URL)
	payload := p.EnrichContent(context.Background(), testArticle())

	if payload.Fallback || payload.Error != "" {
		t.Fatalf("unexpected fallback: %+v", payload)
	}
	if payload.SEOScore != 80 || payload.ReadabilityScore != 75 {
		t.Fatalf("scores = %d/%d; want 80/75", payload.SEOScore, payload.ReadabilityScore)
	}
	if payload.Provider != "ollama" {
		t.Fatalf("provider = %q", payload.Provider)
	}
	if payload.SuggestedMetaDescription != "Discover how marketing automation transforms engagement." {
		t.Fatalf("meta description = %q; want label prefix and quotes stripped", payload.SuggestedMetaDescription)
	}

	// Lowercased, short tokens dropped.
	want := []string{"marketing", "automation", "engagement", "prospects"}
	if len(payload.Keywords) != len(want) {
		t.Fatalf("keywords = %v; want %v", payload.Keywords, want)
	}
	for i, kw := range want {
		if payload.Keywords[i] != kw {
			t.Fatalf("keywords = %v; want %v", payload.Keywords, want)
		}
	}

	if len(payload.KeywordDensity) != 3 {
		t.Fatalf("density has %d entries; want top 3", len(payload.KeywordDensity))
	}
	if payload.ToneAnalysis[types.ToneProfessional] != 0.8 {
		t.Fatalf("tone = %v", payload.ToneAnalysis)
	}
}

func TestOllamaEnrichContentFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/generate" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewOllamaProvider("", srv.URL)
	payload := p.EnrichContent(context.Background(), testArticle())

	if !payload.Fallback {
		t.Fatalf("Fallback = false; want true")
	}
	if payload.SEOScore != 70 {
		t.Fatalf("SEOScore = %d; want 70", payload.SEOScore)
	}
	if payload.Error == "" {
		t.Fatalf("Error is empty")
	}
	if payload.Provider != "ollama" {
		t.Fatalf("provider = %q", payload.Provider)
	}
	want := []string{"local", "model", "fallback"}
	for i, kw := range want {
		if payload.Keywords[i] != kw {
			t.Fatalf("keywords = %v; want %v", payload.Keywords, want)
		}
	}
	if !strings.HasPrefix(payload.SuggestedMetaDescription, "Learn about marketing automation guide") {
		t.Fatalf("fallback description = %q", payload.SuggestedMetaDescription)
	}
}
