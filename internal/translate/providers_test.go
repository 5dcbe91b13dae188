package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProviderTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req googleTranslateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Q)
		assert.Equal(t, "en", req.Source)
		assert.Equal(t, "es", req.Target)
		assert.Equal(t, "text", req.Format)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"Hola"}]}}`))
	}))
	defer server.Close()

	provider := NewGoogleProvider("test-key", time.Second).WithBaseURL(server.URL)
	result, err := provider.Translate(context.Background(), "Hello", "en", "es")

	require.NoError(t, err)
	assert.Equal(t, "Hola", result.TranslatedText)
	assert.Equal(t, "google", result.Provider)
	assert.Equal(t, googleConfidence, result.Confidence)
	assert.Equal(t, "en", result.SourceLang)
	assert.Equal(t, "es", result.TargetLang)
}

func TestGoogleProviderTranslate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewGoogleProvider("bad-key", time.Second).WithBaseURL(server.URL)
	result, err := provider.Translate(context.Background(), "Hello", "en", "es")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "403")
}

func TestGoogleProviderTranslate_EmptyTranslations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"translations":[]}}`))
	}))
	defer server.Close()

	provider := NewGoogleProvider("test-key", time.Second).WithBaseURL(server.URL)
	_, err := provider.Translate(context.Background(), "Hello", "en", "es")

	require.Error(t, err)
}

func TestDeepLProviderTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("auth_key"))
		assert.Equal(t, "Hello", r.PostForm.Get("text"))
		assert.Equal(t, "EN", r.PostForm.Get("source_lang"))
		assert.Equal(t, "FR", r.PostForm.Get("target_lang"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Bonjour"}]}`))
	}))
	defer server.Close()

	provider := NewDeepLProvider("test-key", time.Second).WithBaseURL(server.URL)
	result, err := provider.Translate(context.Background(), "Hello", "en", "fr")

	require.NoError(t, err)
	assert.Equal(t, "Bonjour", result.TranslatedText)
	assert.Equal(t, "deepl", result.Provider)
	assert.Equal(t, deeplConfidence, result.Confidence)
}

func TestDeepLProviderTranslate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewDeepLProvider("test-key", time.Second).WithBaseURL(server.URL)
	_, err := provider.Translate(context.Background(), "Hello", "en", "fr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestProviderConfidenceOrdering(t *testing.T) {
	// LLM providers are trusted above statistical MT; the chain relies on
	// each provider reporting a stable confidence.
	assert.Less(t, googleConfidence, deeplConfidence)
	assert.Less(t, deeplConfidence, openAIConfidence)
	assert.Less(t, openAIConfidence, claudeConfidence)
}
