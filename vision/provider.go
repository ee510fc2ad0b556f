package vision

import (
	"context"
	"log"
	"os"
	"time"

	"marketflow/config"
)

// Placeholder strings returned instead of errors. Alt-text generation is
// best-effort and must never abort the pipeline.
const (
	PlaceholderUnavailable = "Image description unavailable"
	PlaceholderRemote      = "Remote images not yet supported in local model"
	PlaceholderNoProvider  = "Vision service unavailable"
)

// Analysis is the structured content analysis of a single image.
type Analysis struct {
	HasText            bool     `json:"has_text"`
	ContentType        string   `json:"content_type"`
	AccessibilityScore int      `json:"accessibility_score"`
	KeyElements        []string `json:"key_elements"`
	Complexity         string   `json:"complexity"`
	Error              string   `json:"error,omitempty"`
}

// fallbackAnalysis is returned when a provider answers with unparseable JSON.
func fallbackAnalysis() Analysis {
	return Analysis{
		HasText:            false,
		ContentType:        "image",
		AccessibilityScore: 5,
		KeyElements:        []string{"visual content"},
		Complexity:         "moderate",
	}
}

// Provider generates alt text and content analysis for one image reference
// (remote URL, data URL, or raw base64 payload). Implementations catch every
// transport and API failure at the boundary and return placeholder values.
type Provider interface {
	GenerateAltText(ctx context.Context, imageRef, articleContext string) string
	AnalyzeImage(ctx context.Context, imageRef string) Analysis
	Name() string
}

// Service wraps the configured provider. A Service with a nil provider is
// still usable and answers with placeholders.
type Service struct {
	provider Provider
}

// NewService selects a provider by name ("openai" or "qwen"/"local"). An
// unknown name warns and defaults to OpenAI; a failed construction attempts
// the other family before giving up.
func NewService(providerName string) *Service {
	if providerName == "" {
		providerName = os.Getenv("VISION_PROVIDER")
	}
	if providerName == "" {
		providerName = "openai"
	}

	var provider Provider
	var err error

	switch providerName {
	case "openai":
		provider, err = NewGPTProvider("")
	case "qwen", "local":
		provider = NewQwenProvider("")
	default:
		log.Printf("Warning: unknown vision provider %q, defaulting to OpenAI", providerName)
		provider, err = NewGPTProvider("")
	}

	if err != nil {
		log.Printf("Warning: failed to initialize vision provider %q: %v", providerName, err)
		if providerName != "qwen" && providerName != "local" {
			log.Println("Attempting local Qwen provider as fallback")
			provider = NewQwenProvider("")
		} else {
			provider = nil
		}
	}

	return &Service{provider: provider}
}

// NewServiceWithProvider wires an explicit provider (used by tests and by
// the enrichment subsystem when it already knows the family).
func NewServiceWithProvider(p Provider) *Service {
	return &Service{provider: p}
}

func (s *Service) GenerateAltText(ctx context.Context, imageRef, articleContext string) string {
	if s == nil || s.provider == nil {
		return PlaceholderNoProvider
	}
	return s.provider.GenerateAltText(ctx, imageRef, articleContext)
}

func (s *Service) AnalyzeImage(ctx context.Context, imageRef string) Analysis {
	if s == nil || s.provider == nil {
		return Analysis{Error: PlaceholderNoProvider}
	}
	return s.provider.AnalyzeImage(ctx, imageRef)
}

// Available reports whether a provider was successfully constructed.
func (s *Service) Available() bool { return s != nil && s.provider != nil }

// Timeout returns the call budget for the active provider family: local
// models get the longer budget, cloud models the shorter one.
func (s *Service) Timeout() time.Duration {
	if s == nil || s.provider == nil {
		return config.VisionCloudTimeout
	}
	if s.provider.Name() == "openai" {
		return config.VisionCloudTimeout
	}
	return config.VisionLocalTimeout
}

// ProviderName returns the active provider identifier or "none".
func (s *Service) ProviderName() string {
	if s == nil || s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// truncateAltText enforces the screen-reader budget with a visible ellipsis.
// The limit counts characters, not bytes, so multi-byte runes never get
// split at the cut point.
func truncateAltText(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-3]) + "..."
}
