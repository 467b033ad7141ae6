package drafts

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

func TestAnthropicClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		_ = json.NewEncoder(w).Encode(messagesResponse{
			Model:   "test-model",
			Content: []contentBlock{{Type: "text", Text: `{"subject":"Hi","body":"Hello"}`}},
		})
	}))
	defer srv.Close()

	client := NewAnthropicClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "test-model"})
	text, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"Hi","body":"Hello"}`, text)
}

func TestAnthropicClientErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewAnthropicClient(ClientConfig{}).Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		_, err := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()
		_, err := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()
		client := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		_, err := client.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()
		_, err := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: url}).Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
