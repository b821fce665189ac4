package ai

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

func TestGeminiClient_Generate(t *testing.T) {
	// Подготовка
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		var req geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"urgency\":8}"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", "gemini-1.5-flash", server.URL, time.Second)

	// Действие
	text, err := client.Generate(context.Background(), "system", "help")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, `{"urgency":8}`, text)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
}

func TestGeminiClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", "gemini-1.5-flash", server.URL, time.Second)

	_, err := client.Generate(context.Background(), "system", "help")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiClient_Disabled(t *testing.T) {
	client := NewGeminiClient("", "gemini-1.5-flash", "", time.Second)

	assert.False(t, client.Enabled())
	_, err := client.Generate(context.Background(), "system", "help")
	assert.Error(t, err)
}

func TestGeminiClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", "gemini-1.5-flash", server.URL, time.Second)

	_, err := client.Generate(context.Background(), "system", "help")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode gemini response")
	assert.NotContains(t, err.Error(), "no candidates")
}
