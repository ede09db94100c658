package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/julianshen/autodocs/internal/provider"
)

func init() {
	provider.RegisterProvider("openai", func(opts provider.Options) provider.LLMProvider {
		return New(opts)
	})
}

// ErrAPI marks non-200 responses from the chat completions endpoint.
var ErrAPI = errors.New("openai api error")

// Provider implements the LLMProvider interface for OpenAI-compatible APIs.
type Provider struct {
	baseURL      string
	apiKey       string
	extraHeaders map[string]string
	client       *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// New creates a new OpenAI-compatible provider.
func New(opts provider.Options) *Provider {
	extraHeaders := opts.ExtraHeaders
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &Provider{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		extraHeaders: extraHeaders,
		client:       &http.Client{},
		limiter:      limiter,
		logger:       logger,
	}
}

// apiRequest is the request body sent to the OpenAI API.
type apiRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	ResponseFormat *apiResponseFormat `json:"response_format,omitempty"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	Temperature    *float64           `json:"temperature,omitempty"`
	Stream         bool               `json:"stream"`
}

type apiResponseFormat struct {
	Type       string         `json:"type"`
	JSONSchema *apiJSONSchema `json:"json_schema,omitempty"`
}

type apiJSONSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type apiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends a chat completion request and returns the first choice.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.CompletionResponse, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for rate limiter")
		}
	}

	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, errors.Wrap(err, "building request body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	for k, v := range p.extraHeaders {
		httpReq.Header.Set(k, v)
	}

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

	p.logger.Debug("chat completion",
		zap.String("request_id", requestID),
		zap.String("model", req.Model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(
			errors.Newf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			ErrAPI,
		)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.Mark(errors.New("API returned no choices"), ErrAPI)
	}

	choice := parsed.Choices[0]
	if choice.Message.Content == "" && choice.Message.Refusal != "" {
		return nil, errors.Mark(errors.Newf("model refused: %s", choice.Message.Refusal), ErrAPI)
	}

	return &provider.CompletionResponse{
		Text:         choice.Message.Content,
		Model:        parsed.Model,
		FinishReason: choice.FinishReason,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

func buildRequest(req provider.CompletionRequest) apiRequest {
	apiReq := apiRequest{
		Model:       req.Model,
		Messages:    req.ChatMessages(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if rf := req.ResponseFormat; rf != nil {
		apiReq.ResponseFormat = &apiResponseFormat{
			Type: "json_schema",
			JSONSchema: &apiJSONSchema{
				Name:   rf.Name,
				Schema: rf.Schema,
				Strict: rf.Strict,
			},
		}
	}
	return apiReq
}
