// Package providers contains the LLM clients used to reach hosted
// vision and text models, a registry that instantiates them from
// configuration, and a shared rate limiter.
//
// A client makes exactly one attempt per Chat call. Failed calls
// surface to the caller immediately; nothing in this package sleeps
// and re-sends on error.
package providers

import (
	"context"
	"encoding/base64"
	"time"
)

// LLMClient is the primary interface for chat completion requests.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openrouter").
	Name() string
}

// ImageAttachment is an inline image carried by a chat message.
type ImageAttachment struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type,omitempty"` // "image/jpeg" when empty
}

// DataURI encodes the attachment as a base64 data URI for transport.
func (a ImageAttachment) DataURI() string {
	mime := a.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Message represents a chat message.
type Message struct {
	Role    string            `json:"role"` // "system", "user", "assistant"
	Content string            `json:"content"`
	Images  []ImageAttachment `json:"-"` // For vision models (sent as data URIs)
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters. Temperature zero is meaningful and must be
	// transmitted, so it never gets omitempty treatment.
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call. On error the
// result still carries request ID, provider, timing, and error fields
// so the caller can record the failed call.
type ChatResult struct {
	// Response content
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost and timing
	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`
	TotalTime     time.Duration `json:"total_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	RetryAfter   time.Duration
}
