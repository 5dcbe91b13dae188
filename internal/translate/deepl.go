package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultDeepLURL = "https://api-free.deepl.com/v2/translate"

	deeplConfidence = 0.92
)

// DeepLProvider translates text with the DeepL API.
type DeepLProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepLProvider creates a DeepL provider.
func NewDeepLProvider(apiKey string, timeout time.Duration) *DeepLProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DeepLProvider{
		apiKey:     apiKey,
		baseURL:    defaultDeepLURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (p *DeepLProvider) WithBaseURL(baseURL string) *DeepLProvider {
	p.baseURL = baseURL
	return p
}

func (p *DeepLProvider) Name() string { return "deepl" }

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate translates text from sourceLang to targetLang. DeepL expects
// uppercase language codes.
func (p *DeepLProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	form := url.Values{}
	form.Set("auth_key", p.apiKey)
	form.Set("text", text)
	form.Set("source_lang", strings.ToUpper(sourceLang))
	form.Set("target_lang", strings.ToUpper(targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepl returned status %d", resp.StatusCode)
	}

	var body deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Translations) == 0 {
		return nil, fmt.Errorf("response contained no translations")
	}

	return &Result{
		TranslatedText: body.Translations[0].Text,
		Confidence:     deeplConfidence,
		Provider:       p.Name(),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
	}, nil
}
