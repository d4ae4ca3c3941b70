package llmcall

import (
	"testing"
	"time"

	"github.com/jackzampolin/fitcheck/internal/providers"
)

func TestFromChatResult(t *testing.T) {
	t.Run("nil result returns nil", func(t *testing.T) {
		if call := FromChatResult(nil, RecordOptions{}); call != nil {
			t.Errorf("expected nil call, got %+v", call)
		}
	})

	t.Run("successful result", func(t *testing.T) {
		temp := 0.0
		result := &providers.ChatResult{
			Content:          `{"overall_score": 7}`,
			PromptTokens:     120,
			CompletionTokens: 45,
			TotalTokens:      165,
			ExecutionTime:    1500 * time.Millisecond,
			Provider:         "openrouter",
			ModelUsed:        "allenai/molmo-2-8b:free",
			Success:          true,
		}
		call := FromChatResult(result, RecordOptions{
			AnalysisID:  "analysis-1",
			Stage:       "describe",
			PromptKey:   "describe_outfit",
			PromptHash:  "abc123",
			Temperature: &temp,
		})

		if call == nil {
			t.Fatal("expected call, got nil")
		}
		if call.ID == "" {
			t.Error("expected generated ID")
		}
		if call.AnalysisID != "analysis-1" {
			t.Errorf("AnalysisID = %q, want analysis-1", call.AnalysisID)
		}
		if call.Stage != "describe" {
			t.Errorf("Stage = %q, want describe", call.Stage)
		}
		if call.PromptKey != "describe_outfit" {
			t.Errorf("PromptKey = %q, want describe_outfit", call.PromptKey)
		}
		if call.PromptHash != "abc123" {
			t.Errorf("PromptHash = %q, want abc123", call.PromptHash)
		}
		if call.Provider != "openrouter" {
			t.Errorf("Provider = %q, want openrouter", call.Provider)
		}
		if call.Model != "allenai/molmo-2-8b:free" {
			t.Errorf("Model = %q, want allenai/molmo-2-8b:free", call.Model)
		}
		if call.LatencyMs != 1500 {
			t.Errorf("LatencyMs = %d, want 1500", call.LatencyMs)
		}
		if call.InputTokens != 120 || call.OutputTokens != 45 {
			t.Errorf("tokens = %d/%d, want 120/45", call.InputTokens, call.OutputTokens)
		}
		if call.Response != `{"overall_score": 7}` {
			t.Errorf("Response = %q", call.Response)
		}
		if !call.Success {
			t.Error("expected Success true")
		}
		if call.Error != "" {
			t.Errorf("Error = %q, want empty", call.Error)
		}
		if call.Temperature == nil || *call.Temperature != 0.0 {
			t.Errorf("Temperature = %v, want pointer to 0.0", call.Temperature)
		}
	})

	t.Run("failed result carries error message", func(t *testing.T) {
		result := &providers.ChatResult{
			Provider:     "openrouter",
			Success:      false,
			ErrorType:    "rate_limited",
			ErrorMessage: "rate limited by openrouter (retry after 2s)",
		}
		call := FromChatResult(result, RecordOptions{Stage: "structure"})

		if call.Success {
			t.Error("expected Success false")
		}
		if call.Error != "rate limited by openrouter (retry after 2s)" {
			t.Errorf("Error = %q", call.Error)
		}
		if call.Temperature != nil {
			t.Errorf("Temperature = %v, want nil when not set", call.Temperature)
		}
	})
}

func TestStore_Add(t *testing.T) {
	t.Run("adds calls", func(t *testing.T) {
		s := NewStore(10)
		s.Add(&Call{ID: "a"})
		s.Add(&Call{ID: "b"})

		if s.Len() != 2 {
			t.Errorf("Len = %d, want 2", s.Len())
		}
	})

	t.Run("ignores nil", func(t *testing.T) {
		s := NewStore(10)
		s.Add(nil)

		if s.Len() != 0 {
			t.Errorf("Len = %d, want 0", s.Len())
		}
	})

	t.Run("evicts oldest at capacity", func(t *testing.T) {
		s := NewStore(3)
		s.Add(&Call{ID: "a"})
		s.Add(&Call{ID: "b"})
		s.Add(&Call{ID: "c"})
		s.Add(&Call{ID: "d"})

		if s.Len() != 3 {
			t.Errorf("Len = %d, want 3", s.Len())
		}
		if s.Get("a") != nil {
			t.Error("oldest call should have been evicted")
		}
		if s.Get("d") == nil {
			t.Error("newest call should be present")
		}
	})

	t.Run("zero capacity uses default", func(t *testing.T) {
		s := NewStore(0)
		if s.capacity != DefaultCapacity {
			t.Errorf("capacity = %d, want %d", s.capacity, DefaultCapacity)
		}
	})
}

func TestStore_Get(t *testing.T) {
	s := NewStore(10)
	s.Add(&Call{ID: "call-1", Response: "original"})

	t.Run("found", func(t *testing.T) {
		call := s.Get("call-1")
		if call == nil {
			t.Fatal("expected call, got nil")
		}
		if call.Response != "original" {
			t.Errorf("Response = %q, want original", call.Response)
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		call := s.Get("call-1")
		call.Response = "mutated"

		if again := s.Get("call-1"); again.Response != "original" {
			t.Errorf("stored Response = %q, mutation leaked into store", again.Response)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if call := s.Get("nonexistent"); call != nil {
			t.Errorf("expected nil, got %+v", call)
		}
	})
}

func TestStore_List(t *testing.T) {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s := NewStore(20)
	s.Add(&Call{ID: "1", Timestamp: base, AnalysisID: "a1", Stage: "describe", Provider: "openrouter", Model: "molmo", PromptKey: "describe_outfit", Success: true})
	s.Add(&Call{ID: "2", Timestamp: base.Add(1 * time.Minute), AnalysisID: "a1", Stage: "structure", Provider: "openrouter", Model: "molmo", PromptKey: "structure_report", Success: true})
	s.Add(&Call{ID: "3", Timestamp: base.Add(2 * time.Minute), AnalysisID: "a2", Stage: "describe", Provider: "openai", Model: "gpt-4o-mini", PromptKey: "describe_outfit", Success: false})
	s.Add(&Call{ID: "4", Timestamp: base.Add(3 * time.Minute), AnalysisID: "a2", Stage: "structure", Provider: "openai", Model: "gpt-4o-mini", PromptKey: "structure_report", Success: true})

	t.Run("newest first", func(t *testing.T) {
		calls := s.List(QueryFilter{})
		if len(calls) != 4 {
			t.Fatalf("len = %d, want 4", len(calls))
		}
		if calls[0].ID != "4" || calls[3].ID != "1" {
			t.Errorf("order = [%s %s %s %s], want newest first", calls[0].ID, calls[1].ID, calls[2].ID, calls[3].ID)
		}
	})

	t.Run("filter by analysis", func(t *testing.T) {
		calls := s.List(QueryFilter{AnalysisID: "a1"})
		if len(calls) != 2 {
			t.Fatalf("len = %d, want 2", len(calls))
		}
		for _, c := range calls {
			if c.AnalysisID != "a1" {
				t.Errorf("AnalysisID = %q, want a1", c.AnalysisID)
			}
		}
	})

	t.Run("filter by stage", func(t *testing.T) {
		calls := s.List(QueryFilter{Stage: "describe"})
		if len(calls) != 2 {
			t.Errorf("len = %d, want 2", len(calls))
		}
	})

	t.Run("filter by provider and model", func(t *testing.T) {
		calls := s.List(QueryFilter{Provider: "openai", Model: "gpt-4o-mini"})
		if len(calls) != 2 {
			t.Errorf("len = %d, want 2", len(calls))
		}
	})

	t.Run("filter by prompt key", func(t *testing.T) {
		calls := s.List(QueryFilter{PromptKey: "structure_report"})
		if len(calls) != 2 {
			t.Errorf("len = %d, want 2", len(calls))
		}
	})

	t.Run("filter by success", func(t *testing.T) {
		failed := false
		calls := s.List(QueryFilter{Success: &failed})
		if len(calls) != 1 {
			t.Fatalf("len = %d, want 1", len(calls))
		}
		if calls[0].ID != "3" {
			t.Errorf("ID = %s, want 3", calls[0].ID)
		}
	})

	t.Run("filter by time window", func(t *testing.T) {
		after := base.Add(30 * time.Second)
		before := base.Add(150 * time.Second)
		calls := s.List(QueryFilter{After: &after, Before: &before})
		if len(calls) != 2 {
			t.Fatalf("len = %d, want 2", len(calls))
		}
		if calls[0].ID != "3" || calls[1].ID != "2" {
			t.Errorf("IDs = [%s %s], want [3 2]", calls[0].ID, calls[1].ID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		calls := s.List(QueryFilter{Limit: 2})
		if len(calls) != 2 {
			t.Fatalf("len = %d, want 2", len(calls))
		}
		if calls[0].ID != "4" {
			t.Errorf("first ID = %s, want 4", calls[0].ID)
		}
	})

	t.Run("offset", func(t *testing.T) {
		calls := s.List(QueryFilter{Offset: 1, Limit: 2})
		if len(calls) != 2 {
			t.Fatalf("len = %d, want 2", len(calls))
		}
		if calls[0].ID != "3" || calls[1].ID != "2" {
			t.Errorf("IDs = [%s %s], want [3 2]", calls[0].ID, calls[1].ID)
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		calls := s.List(QueryFilter{Offset: 100})
		if len(calls) != 0 {
			t.Errorf("len = %d, want 0", len(calls))
		}
	})
}

func TestStore_CountByStage(t *testing.T) {
	s := NewStore(10)
	s.Add(&Call{ID: "1", AnalysisID: "a1", Stage: "describe"})
	s.Add(&Call{ID: "2", AnalysisID: "a1", Stage: "structure"})
	s.Add(&Call{ID: "3", AnalysisID: "a2", Stage: "describe"})

	t.Run("single analysis", func(t *testing.T) {
		counts := s.CountByStage("a1")
		if counts["describe"] != 1 || counts["structure"] != 1 {
			t.Errorf("counts = %v, want describe:1 structure:1", counts)
		}
	})

	t.Run("all analyses", func(t *testing.T) {
		counts := s.CountByStage("")
		if counts["describe"] != 2 {
			t.Errorf("describe = %d, want 2", counts["describe"])
		}
		if counts["structure"] != 1 {
			t.Errorf("structure = %d, want 1", counts["structure"])
		}
	})

	t.Run("unknown analysis", func(t *testing.T) {
		counts := s.CountByStage("nope")
		if len(counts) != 0 {
			t.Errorf("counts = %v, want empty", counts)
		}
	})
}

func TestRecorder(t *testing.T) {
	t.Run("records results", func(t *testing.T) {
		store := NewStore(10)
		rec := NewRecorder(store)

		rec.Record(&providers.ChatResult{Content: "hello", Success: true}, RecordOptions{Stage: "describe"})

		if store.Len() != 1 {
			t.Fatalf("Len = %d, want 1", store.Len())
		}
		calls := store.List(QueryFilter{})
		if calls[0].Response != "hello" {
			t.Errorf("Response = %q, want hello", calls[0].Response)
		}
	})

	t.Run("nil store is a no-op", func(t *testing.T) {
		rec := NewRecorder(nil)
		rec.Record(&providers.ChatResult{Content: "hello"}, RecordOptions{})
		rec.RecordCall(&Call{ID: "x"})
	})

	t.Run("nil call is a no-op", func(t *testing.T) {
		store := NewStore(10)
		rec := NewRecorder(store)
		rec.RecordCall(nil)

		if store.Len() != 0 {
			t.Errorf("Len = %d, want 0", store.Len())
		}
	})
}
