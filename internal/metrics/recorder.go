package metrics

import (
	"fmt"
	"time"

	"github.com/jackzampolin/fitcheck/internal/providers"
)

// Recorder handles recording metrics into a Store.
type Recorder struct {
	store *Store
}

// NewRecorder creates a new metrics recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordOpts provides context for a metric recording.
type RecordOpts struct {
	AnalysisID string
	Stage      string // "describe" or "structure"
}

// Record stores a single metric and returns its assigned ID.
// A nil store skips recording and returns an empty ID.
func (r *Recorder) Record(m Metric) string {
	if r.store == nil {
		return ""
	}
	return r.store.Add(m)
}

// RecordLLMCall records metrics from an LLM chat result.
func (r *Recorder) RecordLLMCall(opts RecordOpts, result *providers.ChatResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil chat result")
	}

	m := Metric{
		// Attribution
		AnalysisID: opts.AnalysisID,
		Stage:      opts.Stage,

		// Provider info
		Provider: result.Provider,
		Model:    result.ModelUsed,

		// Cost and tokens
		CostUSD:          result.CostUSD,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,

		// Timing
		ExecutionSeconds: result.ExecutionTime.Seconds(),
		TotalSeconds:     result.TotalTime.Seconds(),

		// Status
		Success:   result.Success,
		ErrorType: result.ErrorType,

		// Metadata
		CreatedAt: time.Now(),
	}

	return r.Record(m), nil
}

// RecordError records a failed operation as a metric.
func (r *Recorder) RecordError(opts RecordOpts, provider, model, errorType string, duration time.Duration) string {
	m := Metric{
		// Attribution
		AnalysisID: opts.AnalysisID,
		Stage:      opts.Stage,

		// Provider info
		Provider: provider,
		Model:    model,

		// Timing
		TotalSeconds: duration.Seconds(),

		// Status
		Success:   false,
		ErrorType: errorType,

		// Metadata
		CreatedAt: time.Now(),
	}

	return r.Record(m)
}
