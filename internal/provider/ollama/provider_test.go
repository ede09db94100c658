package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/provider"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.2", body["model"])
		assert.Equal(t, false, body["stream"])
		assert.Equal(t, map[string]any{"type": "object"}, body["format"])
		opts := body["options"].(map[string]any)
		assert.EqualValues(t, 512, opts["num_predict"])

		w.Write([]byte(`{
			"model": "llama3.2",
			"message": {"role": "assistant", "content": "{\"summary\":\"ok\"}"},
			"done": true,
			"done_reason": "stop",
			"prompt_eval_count": 40,
			"eval_count": 8
		}`))
	}))
	defer srv.Close()

	p := New(provider.Options{BaseURL: srv.URL})
	var _ provider.LLMProvider = p

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Model:          "llama3.2",
		System:         "json only",
		Messages:       []provider.Message{provider.NewUserMessage("analyze")},
		MaxTokens:      512,
		ResponseFormat: &provider.ResponseFormat{Name: "x", Schema: json.RawMessage(`{"type":"object"}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, resp.Text)
	assert.Equal(t, 40, resp.InputTokens)
	assert.Equal(t, 8, resp.OutputTokens)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	_, err := New(provider.Options{BaseURL: srv.URL}).Complete(context.Background(), provider.CompletionRequest{Model: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}

func TestNewDefaultBaseURL(t *testing.T) {
	p := New(provider.Options{})
	assert.Equal(t, DefaultBaseURL, p.baseURL)
}

func TestNewReplacesOpenAIDefaultBaseURL(t *testing.T) {
	p := New(provider.Options{BaseURL: config.DefaultConfig().Provider.BaseURL})
	assert.Equal(t, DefaultBaseURL, p.baseURL)
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"empty", "", DefaultBaseURL},
		{"openai default", config.DefaultBaseURL, DefaultBaseURL},
		{"openai default with slash", config.DefaultBaseURL + "/", DefaultBaseURL},
		{"remote ollama", "http://gpu-box:11434/", "http://gpu-box:11434"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseURL(tt.configured))
		})
	}
}

func TestNewLeavesTimeoutToTransport(t *testing.T) {
	p := New(provider.Options{})
	assert.Zero(t, p.client.Timeout)
}
