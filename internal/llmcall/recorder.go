package llmcall

import (
	"github.com/jackzampolin/fitcheck/internal/providers"
)

// Recorder handles LLM call recording into a Store.
type Recorder struct {
	store *Store
}

// NewRecorder creates a new LLM call recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Record captures an LLM call.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) {
	if r.store == nil {
		return // No store configured, skip recording
	}

	r.store.Add(FromChatResult(result, opts))
}

// RecordCall captures an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if r.store == nil || call == nil {
		return
	}

	r.store.Add(call)
}
