package integrations

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/julianshen/autodocs/internal/provider"
)

// ErrMalformedResponse marks structured completions whose text is not the
// JSON object that was asked for.
var ErrMalformedResponse = errors.New("malformed structured response")

// Usage is the running token count across completions.
type Usage struct {
	Requests     int `json:"requests"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// LLMCompleter wraps an LLMProvider with a fixed model and sampling settings
// and keeps a tally of token usage. It is safe for concurrent use.
type LLMCompleter struct {
	provider    provider.LLMProvider
	model       string
	maxTokens   int
	temperature *float64

	mu    sync.Mutex
	usage Usage
}

// CompleterOption configures an LLMCompleter.
type CompleterOption func(*LLMCompleter)

// WithMaxTokens caps the completion length. Zero leaves it to the server.
func WithMaxTokens(n int) CompleterOption {
	return func(c *LLMCompleter) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t *float64) CompleterOption {
	return func(c *LLMCompleter) { c.temperature = t }
}

// NewLLMCompleter creates a new LLMCompleter.
func NewLLMCompleter(p provider.LLMProvider, model string, opts ...CompleterOption) *LLMCompleter {
	c := &LLMCompleter{provider: p, model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model name requests are sent with.
func (c *LLMCompleter) Model() string { return c.model }

// Complete sends a system and user prompt and returns the response text.
func (c *LLMCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.send(ctx, system, user, nil)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// CompleteStructured asks for a JSON answer matching format and decodes it
// into out.
func (c *LLMCompleter) CompleteStructured(ctx context.Context, system, user string, format *provider.ResponseFormat, out any) error {
	resp, err := c.send(ctx, system, user, format)
	if err != nil {
		return err
	}
	text := stripCodeFence(resp.Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errors.Mark(errors.Wrap(err, "decoding structured response"), ErrMalformedResponse)
	}
	return nil
}

// Usage returns the accumulated token usage.
func (c *LLMCompleter) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *LLMCompleter) send(ctx context.Context, system, user string, format *provider.ResponseFormat) (*provider.CompletionResponse, error) {
	req := provider.CompletionRequest{
		Model:          c.model,
		System:         system,
		Messages:       []provider.Message{provider.NewUserMessage(user)},
		ResponseFormat: format,
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "llm complete")
	}

	c.mu.Lock()
	c.usage.Requests++
	c.usage.InputTokens += resp.InputTokens
	c.usage.OutputTokens += resp.OutputTokens
	c.mu.Unlock()

	return resp, nil
}

// stripCodeFence removes a ```json fence some gateways wrap JSON answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
