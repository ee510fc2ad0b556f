package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"marketflow/config"
	"marketflow/types"
	"marketflow/vision"
)

// OllamaProvider enriches content with a self-hosted model behind the Ollama
// HTTP endpoint (AI_PROVIDER=local). Pairs with the Qwen vision family.
type OllamaProvider struct {
	modelName string
	baseURL   string
	client    *http.Client
	vision    *vision.Service
}

func NewOllamaProvider(modelName, baseURL string) *OllamaProvider {
	if modelName == "" {
		modelName = config.GetEnvOrDefault("OLLAMA_MODEL", "llama3.2:latest")
	}
	if baseURL == "" {
		baseURL = config.GetEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	}
	return &OllamaProvider{
		modelName: modelName,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: config.EnrichmentTimeout},
		vision:    vision.NewService("qwen"),
	}
}

func (p *OllamaProvider) Name() string            { return "ollama" }
func (p *OllamaProvider) Vision() *vision.Service { return p.vision }

func (p *OllamaProvider) EnrichContent(ctx context.Context, article *types.Article) *types.EnrichmentPayload {
	body := plainText(article.Body)

	summaryPrompt := fmt.Sprintf("Generate a concise SEO meta description (max 160 characters) for this article: Title: %q Content: %q", article.Title, firstN(body, 500))
	summaryText, err := p.generate(ctx, summaryPrompt)
	if err != nil {
		return p.fallback(article, err)
	}

	keywordsPrompt := fmt.Sprintf("Extract 5 SEO keywords from this text: %q Return only the keywords separated by commas.", firstN(body, 500))
	keywordsText, err := p.generate(ctx, keywordsPrompt)
	if err != nil {
		return p.fallback(article, err)
	}

	// Local models tend to prefix answers with a label and wrap them in
	// quotes, so strip both before use.
	summaryText = strings.Trim(stripLabel(summaryText), `"'`)

	var keywords []string
	for _, kw := range strings.Split(stripLabel(keywordsText), ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if len(kw) > 2 {
			keywords = append(keywords, kw)
		}
		if len(keywords) == config.MaxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		keywords = []string{"marketing", "content", "automation"}
	}

	return &types.EnrichmentPayload{
		SEOScore:                 80,
		ReadabilityScore:         75,
		SuggestedMetaDescription: truncateDescription(summaryText),
		Keywords:                 keywords,
		KeywordDensity:           keywordDensity(body, keywords),
		ToneAnalysis: map[string]float64{
			types.ToneProfessional:   0.8,
			types.ToneConfident:      0.75,
			types.ToneActionOriented: 0.7,
		},
		ContentGaps: []string{
			"Generated by local Ollama model",
			fmt.Sprintf("Model: %s", p.modelName),
		},
		Provider: "ollama",
	}
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  p.modelName,
		"prompt": prompt,
		"stream": false,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error: status %d", resp.StatusCode)
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama error: %w", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}

func (p *OllamaProvider) fallback(article *types.Article, err error) *types.EnrichmentPayload {
	log.Printf("Ollama enrichment failed, using fallback: %v", err)
	desc := fmt.Sprintf("Learn about %s with our comprehensive guide and expert insights.", strings.ToLower(article.Title))
	return &types.EnrichmentPayload{
		SEOScore:                 70,
		SuggestedMetaDescription: truncateDescription(desc),
		Keywords:                 []string{"local", "model", "fallback"},
		Error:                    err.Error(),
		Fallback:                 true,
		Provider:                 "ollama",
	}
}

// stripLabel drops a leading "Label:" prefix from a model answer.
func stripLabel(s string) string {
	if _, rest, ok := strings.Cut(s, ":"); ok {
		return strings.TrimSpace(rest)
	}
	return s
}
