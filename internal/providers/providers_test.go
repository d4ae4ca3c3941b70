package providers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model: "test-model",
			Messages: []Message{
				{Role: "user", Content: "test"},
			},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
	})

	t.Run("scripted responses", func(t *testing.T) {
		c := NewMockClient()
		c.Responses = []string{"first", "second"}

		r1, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "call one"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if r1.Content != "first" {
			t.Errorf("first call Content = %q, want %q", r1.Content, "first")
		}

		r2, _ := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "call two"}},
		})
		if r2.Content != "second" {
			t.Errorf("second call Content = %q, want %q", r2.Content, "second")
		}

		// Past the end of the script the last response repeats
		r3, _ := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "call three"}},
		})
		if r3.Content != "second" {
			t.Errorf("third call Content = %q, want %q", r3.Content, "second")
		}

		reqs := c.Requests()
		if len(reqs) != 3 {
			t.Fatalf("recorded %d requests, want 3", len(reqs))
		}
		if reqs[0].Messages[0].Content != "call one" {
			t.Errorf("recorded first request Content = %q", reqs[0].Messages[0].Content)
		}

		c.Reset()
		if c.RequestCount() != 0 {
			t.Errorf("RequestCount after Reset = %d, want 0", c.RequestCount())
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("expected error, got nil")
		}
		if result.Success {
			t.Error("expected Success = false")
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		// First two should succeed
		_, err := c.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("first request should succeed: %v", err)
		}
		_, err = c.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("second request should succeed: %v", err)
		}

		// Third should fail
		_, err = c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("third request should fail")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = 5 * time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.Chat(ctx, &ChatRequest{})
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows initial requests", func(t *testing.T) {
		limiter := NewRateLimiter(600) // 10 per second

		// Should allow 5 requests quickly
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		elapsed := time.Since(start)

		// Should complete quickly since we have burst capacity
		if elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("try consume", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		// Should succeed initially
		if !limiter.TryConsume() {
			t.Error("first TryConsume should succeed")
		}
	})

	t.Run("status", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		status := limiter.Status()

		if status.TokensLimit != 60 {
			t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
		}
		if status.TokensAvailable <= 0 {
			t.Error("expected positive tokens available")
		}
	})

	t.Run("record 429", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		limiter.Record429(time.Second)

		status := limiter.Status()
		if status.Last429Time.IsZero() {
			t.Error("Last429Time should be set")
		}
		// A 429 with a retry window drains the bucket
		if limiter.TryConsume() {
			t.Error("TryConsume should fail right after a 429 drained the bucket")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		// Create limiter with very low rate
		limiter := NewRateLimiter(1) // 1 per minute

		// Consume the one allowed token
		limiter.Wait(context.Background())

		// Cancel context immediately
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(6000) // 100 per second

		var wg sync.WaitGroup
		var errors atomic.Int32

		// Fire 10 concurrent requests
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					errors.Add(1)
				}
			}()
		}

		wg.Wait()

		if errors.Load() > 0 {
			t.Errorf("had %d errors", errors.Load())
		}

		status := limiter.Status()
		if status.TotalConsumed != 10 {
			t.Errorf("TotalConsumed = %d, want 10", status.TotalConsumed)
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"empty", "", 0},
		{"whole seconds", "2", 2 * time.Second},
		{"fractional seconds", "0.5", 500 * time.Millisecond},
		{"http date ignored", "Wed, 21 Oct 2026 07:28:00 GMT", 0},
		{"negative ignored", "-3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.in); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestTestConfig verifies the test helper works correctly.
func TestTestConfig(t *testing.T) {
	t.Run("loads from environment", func(t *testing.T) {
		cfg := LoadTestConfig()
		// Just verify it doesn't panic - actual values depend on environment
		_ = cfg.HasOpenRouter()
		_ = cfg.HasOpenAI()
		_ = cfg.HasAnyLLM()
	})

	t.Run("ToRegistryConfig", func(t *testing.T) {
		cfg := LoadTestConfig()
		regCfg := cfg.ToRegistryConfig()

		// Verify structure is correct
		if regCfg.LLMProviders == nil {
			t.Error("LLMProviders should not be nil")
		}
	})
}
