package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
		})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", "test-model")
	reply, err := client.Relay(context.Background(), []Message{{Role: "user", Content: "hello"}})
	require.NoError(t, err)

	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "hello back", reply.Content)
}

func TestRelayUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", "test-model")
	_, err := client.Relay(context.Background(), []Message{{Role: "user", Content: "hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestRelayNoChoices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", "test-model")
	_, err := client.Relay(context.Background(), []Message{{Role: "user", Content: "hello"}})
	assert.Error(t, err)
}

func TestRelayNotConfigured(t *testing.T) {
	client := NewClient("", "", "test-model")
	assert.False(t, client.Configured())

	_, err := client.Relay(context.Background(), []Message{{Role: "user", Content: "hello"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
