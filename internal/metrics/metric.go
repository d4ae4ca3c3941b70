// Package metrics provides cost and usage tracking for LLM calls.
package metrics

import "time"

// Metric represents a single recorded metric for an LLM call.
// Metrics are append-only records held in memory with full attribution.
type Metric struct {
	ID string `json:"id,omitempty"`

	// Attribution (for filtering/aggregation)
	AnalysisID string `json:"analysis_id,omitempty"`
	Stage      string `json:"stage,omitempty"` // "describe" or "structure"

	// Provider info
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Cost and tokens
	CostUSD          float64 `json:"cost_usd,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	TotalTokens      int     `json:"total_tokens,omitempty"`

	// Timing
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`
	TotalSeconds     float64 `json:"total_seconds,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at,omitempty"`
}
