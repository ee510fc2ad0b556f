package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	"marketflow/config"
)

const qwenAltTextPrompt = `Generate concise alt text for this image. The alt text should:
- Be under 125 characters
- Describe essential visual information
- Be accessible to screen readers
- Not include phrases like "image of" or "picture showing"

Return only the alt text.`

const qwenAnalysisPrompt = `Analyze this image and provide insights in this exact JSON format:
{
    "has_text": boolean,
    "content_type": "photo|diagram|chart|screenshot|graphic",
    "accessibility_score": number_1_to_10,
    "key_elements": ["element1", "element2"],
    "complexity": "simple|moderate|complex"
}`

var whitespaceRe = regexp.MustCompile(`\s+`)

// QwenProvider talks to a self-hosted Qwen 2.5VL model through the Ollama
// HTTP endpoint. It only accepts embedded base64 payloads: remote URLs are
// rejected with a descriptive placeholder instead of failing.
type QwenProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewQwenProvider(baseURL string) *QwenProvider {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	p := &QwenProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "qwen2.5vl:7b",
		client:  &http.Client{Timeout: config.VisionLocalTimeout},
	}

	// Connectivity probe only; a missing model is reported at call time.
	if resp, err := p.client.Get(p.baseURL + "/api/tags"); err != nil {
		log.Printf("Warning: could not connect to local Qwen model: %v", err)
	} else {
		resp.Body.Close()
	}
	return p
}

func (p *QwenProvider) Name() string { return "qwen" }

func (p *QwenProvider) GenerateAltText(ctx context.Context, imageRef, articleContext string) string {
	prompt := qwenAltTextPrompt
	if articleContext != "" {
		prompt += fmt.Sprintf("\n\nContext: This image appears in content about %s", articleContext)
	}

	imageData, placeholder := extractImagePayload(imageRef)
	if placeholder != "" {
		return placeholder
	}

	text, err := p.generate(ctx, prompt, imageData, 0.3, 50)
	if err != nil {
		log.Printf("Qwen alt text generation failed: %v", err)
		return PlaceholderUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return PlaceholderUnavailable
	}
	return truncateAltText(text, config.MaxAltTextLen)
}

func (p *QwenProvider) AnalyzeImage(ctx context.Context, imageRef string) Analysis {
	imageData, placeholder := extractImagePayload(imageRef)
	if placeholder != "" {
		return Analysis{Error: placeholder}
	}

	content, err := p.generate(ctx, qwenAnalysisPrompt, imageData, 0.1, 200)
	if err != nil {
		return Analysis{Error: err.Error()}
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		return fallbackAnalysis()
	}
	return analysis
}

func (p *QwenProvider) generate(ctx context.Context, prompt, imageData string, temperature float64, numPredict int) (string, error) {
	payload := map[string]any{
		"model":  p.model,
		"prompt": prompt,
		"images": []string{imageData},
		"stream": false,
		"options": map[string]any{
			"temperature": temperature,
			"num_predict": numPredict,
		},
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
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("qwen error: status %d", resp.StatusCode)
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Response, nil
}

// extractImagePayload pulls a validated base64 payload out of an image
// reference. Data URLs are unwrapped; bare strings are assumed to already be
// base64; remote http(s) URLs are unsupported by the local model.
func extractImagePayload(imageRef string) (data string, placeholder string) {
	switch {
	case strings.HasPrefix(imageRef, "data:image/"):
		if _, rest, ok := strings.Cut(imageRef, ";base64,"); ok {
			imageRef = rest
		} else if _, rest, ok := strings.Cut(imageRef, ","); ok {
			imageRef = rest
		}
	case strings.HasPrefix(imageRef, "http"):
		return "", PlaceholderRemote
	}

	cleaned := whitespaceRe.ReplaceAllString(imageRef, "")
	if _, err := base64.StdEncoding.DecodeString(cleaned); err != nil {
		return "", PlaceholderUnavailable
	}
	return cleaned, ""
}
