package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/autodocs/internal/provider"
)

const okBody = `{
  "id": "chatcmpl-1",
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello world!"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3}
}`

func TestCompleteTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request headers
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, false, body["stream"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		_, hasFormat := body["response_format"]
		assert.False(t, hasFormat)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL + "/", APIKey: "test-api-key"})

	// Verify it satisfies the LLMProvider interface
	var _ provider.LLMProvider = p

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Model:    "gpt-4o-mini",
		System:   "You are helpful.",
		Messages: []provider.Message{provider.NewUserMessage("Hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 3, resp.OutputTokens)
}

func TestCompleteSendsJSONSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat struct {
				Type       string `json:"type"`
				JSONSchema struct {
					Name   string          `json:"name"`
					Strict bool            `json:"strict"`
					Schema json.RawMessage `json:"schema"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "json_schema", body.ResponseFormat.Type)
		assert.Equal(t, "file_analysis", body.ResponseFormat.JSONSchema.Name)
		assert.True(t, body.ResponseFormat.JSONSchema.Strict)
		assert.JSONEq(t, `{"type":"object"}`, string(body.ResponseFormat.JSONSchema.Schema))
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL, APIKey: "k"})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []provider.Message{provider.NewUserMessage("analyze")},
		ResponseFormat: &provider.ResponseFormat{
			Name:   "file_analysis",
			Schema: json.RawMessage(`{"type":"object"}`),
			Strict: true,
		},
	})
	require.NoError(t, err)
}

func TestCompleteExtraHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://github.com/julianshen/autodocs", r.Header.Get("HTTP-Referer"))
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	p := New(provider.Options{
		BaseURL:      server.URL,
		APIKey:       "k",
		ExtraHeaders: map[string]string{"HTTP-Referer": "https://github.com/julianshen/autodocs"},
	})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.NoError(t, err)
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API key"}}`))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL, APIKey: "bad"})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAPI))
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAPI))
}

func TestCompleteRefusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"","refusal":"cannot help"}}]}`))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot help")
}

func TestCompleteMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestCompleteOmitsAuthWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL})
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.NoError(t, err)
}

func TestCompleteRateLimiterHonorsContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	p := New(provider.Options{BaseURL: server.URL, RequestsPerMinute: 1})

	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m"})
	require.NoError(t, err)

	// The second call would wait a full minute for its token.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Complete(ctx, provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(provider.Options{BaseURL: server.URL})
	_, err := p.Complete(ctx, provider.CompletionRequest{Model: "m"})
	require.Error(t, err)
}

func TestNewLeavesTimeoutToTransport(t *testing.T) {
	p := New(provider.Options{BaseURL: "http://example.invalid"})
	assert.Zero(t, p.client.Timeout)
}
