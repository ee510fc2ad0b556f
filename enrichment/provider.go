package enrichment

import (
	"context"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"marketflow/config"
	"marketflow/types"
	"marketflow/vision"
)

// Provider abstracts an AI backend for content enrichment
// Implementations must never return a nil payload: failures surface as a
// fallback payload carrying Error and Fallback.
type Provider interface {
	EnrichContent(ctx context.Context, article *types.Article) *types.EnrichmentPayload
	Vision() *vision.Service
	Name() string
}

// Service delegates to the provider selected at startup.
type Service struct {
	provider Provider
}

// NewService selects a provider from AI_PROVIDER ("openai", "local",
// "cohere"). Unknown values and a cohere provider without credentials warn
// and default to OpenAI.
func NewService() *Service {
	providerName := strings.ToLower(config.GetEnvOrDefault("AI_PROVIDER", "openai"))

	var provider Provider
	switch providerName {
	case "openai":
		provider = NewOpenAIProvider()
	case "local":
		provider = NewOllamaProvider("", "")
	case "cohere":
		p, err := NewCohereProvider()
		if err != nil {
			log.Printf("Warning: cohere provider unavailable (%v), defaulting to OpenAI", err)
			provider = NewOpenAIProvider()
		} else {
			provider = p
		}
	default:
		log.Printf("Warning: unknown AI_PROVIDER %q, defaulting to OpenAI", providerName)
		provider = NewOpenAIProvider()
	}
	return &Service{provider: provider}
}

// NewServiceWithProvider wires an explicit provider, used by tests.
func NewServiceWithProvider(p Provider) *Service {
	return &Service{provider: p}
}

func (s *Service) ProviderName() string { return s.provider.Name() }

// VisionTimeout is the call budget of the active vision family, so callers
// budget 30s for cloud alt text and 45s for local models.
func (s *Service) VisionTimeout() time.Duration { return s.provider.Vision().Timeout() }

func (s *Service) EnrichContent(ctx context.Context, article *types.Article) *types.EnrichmentPayload {
	return s.provider.EnrichContent(ctx, article)
}

// GenerateAltText produces alt text for the first image the article
// references, using the vision family that matches the active provider.
// Returns "" when the article carries no images.
func (s *Service) GenerateAltText(ctx context.Context, fields types.RawFields, article *types.Article) string {
	if !fields.HasImages {
		return ""
	}
	urls := vision.DiscoverImageURLs(fields)
	if len(urls) == 0 {
		log.Println("Warning: article marked hasImages but no image URLs found in body or asset fields")
		return ""
	}

	contextText := article.Title + " - " + firstN(plainText(article.Body), 200)
	altText := s.provider.Vision().GenerateAltText(ctx, urls[0], contextText)
	log.Printf("Generated alt text for %s...", firstN(urls[0], 50))
	return altText
}

var cmsBaseURL, _ = url.Parse("https://cms.local/article")

// plainText reduces an HTML body to readable text for prompting and keyword
// statistics. Plain and Markdown bodies pass through unchanged.
func plainText(body string) string {
	if !strings.Contains(body, "<") {
		return body
	}
	parsed, err := readability.FromReader(strings.NewReader(body), cmsBaseURL)
	if err != nil || strings.TrimSpace(parsed.TextContent) == "" {
		return body
	}
	return strings.TrimSpace(parsed.TextContent)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// truncateDescription enforces the meta description budget with a visible
// ellipsis. The budget counts characters, not bytes, so multi-byte runes in
// model output never get split at the cut point.
func truncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= config.MaxMetaDescriptionLen {
		return s
	}
	return string(r[:config.MaxMetaDescriptionLen-3]) + "..."
}

// clampKeywords trims whitespace, drops empties, and caps the list. An empty
// result yields defaults so downstream consumers always see keywords.
func clampKeywords(keywords []string, defaults []string) []string {
	out := make([]string, 0, config.MaxKeywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, kw)
		if len(out) == config.MaxKeywords {
			break
		}
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}

// keywordDensity reports occurrences of the top three keywords as a
// percentage of total words, rounded to two decimals.
func keywordDensity(plain string, keywords []string) map[string]float64 {
	totalWords := len(strings.Fields(plain))
	if totalWords == 0 {
		return map[string]float64{}
	}
	lower := strings.ToLower(plain)
	density := make(map[string]float64)
	for i, kw := range keywords {
		if i == 3 {
			break
		}
		count := strings.Count(lower, strings.ToLower(kw))
		density[kw] = math.Round(float64(count)/float64(totalWords)*100*100) / 100
	}
	return density
}
