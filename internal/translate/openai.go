package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desirekokuvi/bablit/pkg/langcode"
)

const (
	defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel      = "gpt-4o"

	openAIConfidence = 0.93
)

// OpenAIProvider translates text with an OpenAI chat model prompted as a
// professional translator.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI translation provider.
func NewOpenAIProvider(apiKey string, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    defaultOpenAIURL,
		model:      openAIModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (p *OpenAIProvider) WithBaseURL(baseURL string) *OpenAIProvider {
	p.baseURL = baseURL
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate translates text from sourceLang to targetLang.
func (p *OpenAIProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	buf := new(bytes.Buffer)
	payload := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "user", Content: translationPrompt(text, sourceLang, targetLang)},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var body openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	return &Result{
		TranslatedText: strings.TrimSpace(body.Choices[0].Message.Content),
		Confidence:     openAIConfidence,
		Provider:       p.Name(),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
	}, nil
}

// translationPrompt builds the instruction shared by the LLM providers.
func translationPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"You are a professional translator. Please translate the following text from %s to %s.\n\n"+
			"Text to translate: %q\n\n"+
			"Please respond with only the translated text, nothing else.",
		langcode.Name(sourceLang), langcode.Name(targetLang), text,
	)
}
