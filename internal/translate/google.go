package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultGoogleURL = "https://translation.googleapis.com/language/translate/v2"

	// googleConfidence is the baseline trust for statistical MT output.
	googleConfidence = 0.90
)

// GoogleProvider translates text with the Google Translate v2 API.
type GoogleProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleProvider creates a Google Translate provider.
func NewGoogleProvider(apiKey string, timeout time.Duration) *GoogleProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{
		apiKey:     apiKey,
		baseURL:    defaultGoogleURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (p *GoogleProvider) WithBaseURL(baseURL string) *GoogleProvider {
	p.baseURL = baseURL
	return p
}

func (p *GoogleProvider) Name() string { return "google" }

type googleTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate translates text from sourceLang to targetLang.
func (p *GoogleProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	buf := new(bytes.Buffer)
	payload := googleTranslateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	}
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", p.baseURL, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google translate returned status %d", resp.StatusCode)
	}

	var body googleTranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Data.Translations) == 0 {
		return nil, fmt.Errorf("response contained no translations")
	}

	return &Result{
		TranslatedText: body.Data.Translations[0].TranslatedText,
		Confidence:     googleConfidence,
		Provider:       p.Name(),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
	}, nil
}
