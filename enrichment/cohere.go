package enrichment

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"marketflow/types"
	"marketflow/vision"
)

// CohereProvider is the alternative cloud backend (AI_PROVIDER=cohere). It
// mirrors the OpenAI two-call structure via the Cohere chat API and keeps
// the GPT-4o vision family for alt text since Cohere has no vision models.
type CohereProvider struct {
	client *cohereclient.Client
	model  string
	vision *vision.Service
}

func NewCohereProvider() (*CohereProvider, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("COHERE_API_KEY not set")
	}

	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere API
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)

	return &CohereProvider{
		client: client,
		model:  "command-r-08-2024",
		vision: vision.NewService("openai"),
	}, nil
}

func (p *CohereProvider) Name() string            { return "cohere" }
func (p *CohereProvider) Vision() *vision.Service { return p.vision }

func (p *CohereProvider) EnrichContent(ctx context.Context, article *types.Article) *types.EnrichmentPayload {
	body := plainText(article.Body)
	userPrompt := fmt.Sprintf("Title: %s\n\nContent: %s", article.Title, firstN(body, 1000))

	summary, err := p.chat(ctx, metaDescriptionPrompt, userPrompt)
	if err != nil {
		return p.fallback(article, err)
	}
	keywordsText, err := p.chat(ctx, keywordsPrompt, userPrompt)
	if err != nil {
		return p.fallback(article, err)
	}

	keywords := clampKeywords(strings.Split(keywordsText, ","), []string{"marketing", "automation", "strategy"})

	return &types.EnrichmentPayload{
		SEOScore:                 85,
		ReadabilityScore:         78,
		SuggestedMetaDescription: truncateDescription(summary),
		Keywords:                 keywords,
		KeywordDensity:           keywordDensity(body, keywords),
		ToneAnalysis: map[string]float64{
			types.ToneProfessional:   0.9,
			types.ToneConfident:      0.8,
			types.ToneActionOriented: 0.85,
		},
		ContentGaps: []string{
			"Consider adding more specific metrics",
			"Include customer success examples",
			"Add clearer call-to-action positioning",
		},
		Provider: "cohere",
	}
}

func (p *CohereProvider) chat(ctx context.Context, preamble, message string) (string, error) {
	resp, err := p.client.Chat(ctx, &cohere.ChatRequest{
		Message:  message,
		Model:    cohere.String(p.model),
		Preamble: cohere.String(preamble),
	})
	if err != nil {
		return "", fmt.Errorf("cohere API error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("cohere API returned empty response")
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *CohereProvider) fallback(article *types.Article, err error) *types.EnrichmentPayload {
	log.Printf("Cohere enrichment failed, using fallback: %v", err)
	desc := fmt.Sprintf("Learn about %s and discover actionable insights for your marketing strategy.", strings.ToLower(article.Title))
	return &types.EnrichmentPayload{
		SEOScore:                 70,
		SuggestedMetaDescription: truncateDescription(desc),
		Keywords:                 []string{"marketing", "automation", "strategy"},
		Error:                    err.Error(),
		Fallback:                 true,
		Provider:                 "cohere",
	}
}
