package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
	claudeModel         = "claude-sonnet-4-20250514"

	// claudeConfidence is the highest baseline in the chain; context-aware
	// translation is trusted above the statistical providers.
	claudeConfidence = 0.95
)

// ClaudeProvider translates text with the Anthropic messages API.
type ClaudeProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClaudeProvider creates an Anthropic translation provider.
func NewClaudeProvider(apiKey string, timeout time.Duration) *ClaudeProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ClaudeProvider{
		apiKey:     apiKey,
		baseURL:    defaultAnthropicURL,
		model:      claudeModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (p *ClaudeProvider) WithBaseURL(baseURL string) *ClaudeProvider {
	p.baseURL = baseURL
	return p
}

func (p *ClaudeProvider) Name() string { return "claude" }

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Translate translates text from sourceLang to targetLang.
func (p *ClaudeProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	buf := new(bytes.Buffer)
	payload := claudeRequest{
		Model:     p.model,
		MaxTokens: 1000,
		Messages: []claudeMessage{
			{Role: "user", Content: translationPrompt(text, sourceLang, targetLang)},
		},
	}
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}

	var body claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Content) == 0 {
		return nil, fmt.Errorf("response contained no content")
	}

	return &Result{
		TranslatedText: strings.TrimSpace(body.Content[0].Text),
		Confidence:     claudeConfidence,
		Provider:       p.Name(),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
	}, nil
}
