package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/pkg/logger"
)

const defaultGoogleDetectURL = "https://translation.googleapis.com/language/translate/v2/detect"

// GoogleDetector detects languages with the Google Translate v2 detect
// endpoint. Any failure degrades to the fallback result.
type GoogleDetector struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDetector creates a detector backed by Google Translate.
func NewGoogleDetector(apiKey string, timeout time.Duration) *GoogleDetector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleDetector{
		apiKey:     apiKey,
		baseURL:    defaultGoogleDetectURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the detect endpoint, used in tests.
func (d *GoogleDetector) WithBaseURL(baseURL string) *GoogleDetector {
	d.baseURL = baseURL
	return d
}

type googleDetectRequest struct {
	Q string `json:"q"`
}

type googleDetectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
			IsReliable bool    `json:"isReliable"`
		} `json:"detections"`
	} `json:"data"`
}

// Detect returns the best-guess language for the text. Empty text, a missing
// API key, or any backend failure resolve to the low-confidence default.
func (d *GoogleDetector) Detect(ctx context.Context, text string) Result {
	if text == "" || d.apiKey == "" {
		return fallbackResult()
	}

	result, err := d.detect(ctx, text)
	if err != nil {
		logger.WithContext(ctx).Warn("language detection failed, using default",
			zap.Error(err),
		)
		return fallbackResult()
	}
	return result
}

func (d *GoogleDetector) detect(ctx context.Context, text string) (Result, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(googleDetectRequest{Q: text}); err != nil {
		return Result{}, fmt.Errorf("encode detect request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", d.baseURL, d.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return Result{}, fmt.Errorf("create detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("detect request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("detect request returned status %d", resp.StatusCode)
	}

	var body googleDetectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decode detect response: %w", err)
	}

	if len(body.Data.Detections) == 0 || len(body.Data.Detections[0]) == 0 {
		return Result{}, fmt.Errorf("detect response contained no detections")
	}

	detection := body.Data.Detections[0][0]
	return Result{
		Language:   detection.Language,
		Confidence: detection.Confidence,
		IsReliable: detection.IsReliable,
	}, nil
}
