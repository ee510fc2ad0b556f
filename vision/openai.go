package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"marketflow/config"
)

const gptVisionSystemPrompt = `You are an expert at writing accessible alt text for images.
Generate concise, descriptive alt text that:
1. Describes the essential visual information
2. Is under 125 characters for screen readers
3. Focuses on content relevant to the context
4. Avoids redundant phrases like "image of" or "picture showing"

Return only the alt text, nothing else.`

const gptAnalysisPrompt = `Analyze this image for accessibility and content insights.
Provide a JSON response with:
- has_text: boolean (contains readable text)
- content_type: string (photo, diagram, chart, screenshot, etc.)
- accessibility_score: number 1-10 (how accessible without alt text)
- key_elements: array of main visual elements
- complexity: string (simple, moderate, complex)`

// GPTProvider sends image references to the hosted GPT-4o multimodal model
// over the chat-completions API.
type GPTProvider struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewGPTProvider builds the cloud provider. Missing credentials are a
// construction error so the service can attempt the local family instead.
func NewGPTProvider(apiKey string) (*GPTProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	return &GPTProvider{
		apiKey:   apiKey,
		endpoint: "https://api.openai.com/v1/chat/completions",
		model:    "gpt-4o",
		client:   &http.Client{Timeout: config.VisionCloudTimeout},
	}, nil
}

func (p *GPTProvider) Name() string { return "openai" }

// GenerateAltText asks GPT-4o for alt text, truncating anything over the
// character budget. Every failure is converted to a placeholder string.
func (p *GPTProvider) GenerateAltText(ctx context.Context, imageRef, articleContext string) string {
	userPrompt := "Generate alt text for this image."
	if articleContext != "" {
		userPrompt += fmt.Sprintf(" Context: This image appears in an article about %s", articleContext)
	}

	payload := map[string]any{
		"model": p.model,
		"messages": []any{
			map[string]any{"role": "system", "content": gptVisionSystemPrompt},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": userPrompt},
					map[string]any{
						"type":      "image_url",
						"image_url": map[string]any{"url": imageRef, "detail": "high"},
					},
				},
			},
		},
		"max_tokens":  150,
		"temperature": 0.3,
	}

	content, err := p.complete(ctx, payload)
	if err != nil {
		log.Printf("GPT-4o alt text generation failed: %v", err)
		return PlaceholderUnavailable
	}
	return truncateAltText(strings.TrimSpace(content), config.MaxAltTextLen)
}

// AnalyzeImage returns the structured analysis, substituting a fixed
// fallback when the model answers with unparseable JSON.
func (p *GPTProvider) AnalyzeImage(ctx context.Context, imageRef string) Analysis {
	payload := map[string]any{
		"model": p.model,
		"messages": []any{
			map[string]any{"role": "system", "content": gptAnalysisPrompt},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": "Analyze this image:"},
					map[string]any{
						"type":      "image_url",
						"image_url": map[string]any{"url": imageRef, "detail": "high"},
					},
				},
			},
		},
		"max_tokens":  300,
		"temperature": 0.2,
	}

	content, err := p.complete(ctx, payload)
	if err != nil {
		return Analysis{Error: err.Error()}
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		return fallbackAnalysis()
	}
	return analysis
}

func (p *GPTProvider) complete(ctx context.Context, payload map[string]any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gpt vision error: status %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("gpt vision returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips a markdown code fence if the model wrapped its answer.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
