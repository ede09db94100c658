package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/provider"
)

// DefaultBaseURL is where a local Ollama server listens.
const DefaultBaseURL = "http://localhost:11434"

// BaseURL returns the Ollama endpoint for a configured base URL. An empty
// value, or the OpenAI default left over from the stock config, means
// DefaultBaseURL.
func BaseURL(configured string) string {
	configured = strings.TrimRight(configured, "/")
	if configured == "" || configured == strings.TrimRight(config.DefaultBaseURL, "/") {
		return DefaultBaseURL
	}
	return configured
}

func init() {
	provider.RegisterKeylessProvider("ollama", func(opts provider.Options) provider.LLMProvider {
		return New(opts)
	})
}

// Provider implements the LLMProvider interface for Ollama (local LLM server).
type Provider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a new Ollama provider. The base URL is resolved by BaseURL.
func New(opts provider.Options) *Provider {
	baseURL := BaseURL(opts.BaseURL)
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &Provider{
		baseURL: baseURL,
		client:  &http.Client{},
		limiter: limiter,
		logger:  logger,
	}
}

// apiRequest is the request body sent to the Ollama API.
type apiRequest struct {
	Model    string             `json:"model"`
	Messages []provider.Message `json:"messages"`
	Format   json.RawMessage    `json:"format,omitempty"`
	Stream   bool               `json:"stream"`
	Options  *apiOptions        `json:"options,omitempty"`
}

type apiOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type apiResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete sends a non-streaming request to /api/chat. A response format is
// passed through as Ollama's structured output schema.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for rate limiter")
		}
	}

	apiReq := apiRequest{
		Model:    req.Model,
		Messages: req.ChatMessages(),
	}
	if req.ResponseFormat != nil {
		apiReq.Format = req.ResponseFormat.Schema
	}
	if req.MaxTokens > 0 || req.Temperature != nil {
		apiReq.Options = &apiOptions{NumPredict: req.MaxTokens, Temperature: req.Temperature}
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, errors.Wrap(err, "building request body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	p.logger.Debug("ollama chat",
		zap.String("model", req.Model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("ollama error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}

	return &provider.CompletionResponse{
		Text:         parsed.Message.Content,
		Model:        parsed.Model,
		FinishReason: parsed.DoneReason,
		InputTokens:  parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
	}, nil
}
