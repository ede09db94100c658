package provider

import (
	"context"
	"encoding/json"
)

// LLMProvider defines the interface for interacting with an LLM provider.
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest represents a single non-streaming chat completion.
type CompletionRequest struct {
	Model          string          `json:"model"`
	System         string          `json:"system,omitempty"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

// ResponseFormat asks the model to answer with JSON matching Schema.
type ResponseFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse is the assistant text plus token usage.
type CompletionResponse struct {
	Text         string `json:"text"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) Message {
	return Message{Role: "user", Content: text}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(text string) Message {
	return Message{Role: "system", Content: text}
}

// ChatMessages flattens System and Messages into the role-tagged list
// OpenAI-style APIs expect.
func (r CompletionRequest) ChatMessages() []Message {
	msgs := make([]Message, 0, len(r.Messages)+1)
	if r.System != "" {
		msgs = append(msgs, NewSystemMessage(r.System))
	}
	return append(msgs, r.Messages...)
}
