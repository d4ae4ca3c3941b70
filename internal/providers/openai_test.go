package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func openAIChatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
}

func TestOpenAIClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(openAIChatResponse("Hello there"))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.Content != "Hello there" {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 15 {
			t.Errorf("TotalTokens = %d, want 15", result.TotalTokens)
		}
		if result.Provider != OpenAIName {
			t.Errorf("Provider = %s, want %s", result.Provider, OpenAIName)
		}
	})

	t.Run("temperature zero is sent", func(t *testing.T) {
		var rawBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&rawBody)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(openAIChatResponse("ok"))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages:    []Message{{Role: "user", Content: "test"}},
			Temperature: 0,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}

		temp, ok := rawBody["temperature"]
		if !ok {
			t.Fatal("temperature missing from request body")
		}
		if temp != 0.0 {
			t.Errorf("temperature = %v, want 0", temp)
		}
	})

	t.Run("vision message with images", func(t *testing.T) {
		var rawBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&rawBody)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(openAIChatResponse("I see an image"))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{
				{
					Role:    "user",
					Content: "What's in this image?",
					Images: []ImageAttachment{
						{Data: []byte("fake-image-data")},
					},
				},
			},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}

		messages, _ := rawBody["messages"].([]any)
		if len(messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messages))
		}
		msg, _ := messages[0].(map[string]any)
		parts, ok := msg["content"].([]any)
		if !ok {
			t.Fatalf("expected content to be array, got %T", msg["content"])
		}
		if len(parts) != 2 {
			t.Fatalf("expected 2 content parts, got %d", len(parts))
		}
		imagePart, _ := parts[1].(map[string]any)
		imageURL, _ := imagePart["image_url"].(map[string]any)
		url, _ := imageURL["url"].(string)
		// An attachment without a MIME type is sent as JPEG
		if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
			t.Errorf("image URL = %q, want JPEG data URI", url)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1.5")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "Rate limit reached", "type": "rate_limit_error"},
			})
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "test"}},
		})

		if err == nil {
			t.Fatal("expected error")
		}
		if result.ErrorType != "rate_limited" {
			t.Errorf("ErrorType = %s, want rate_limited", result.ErrorType)
		}
		if result.RetryAfter != 1500*time.Millisecond {
			t.Errorf("RetryAfter = %v, want 1.5s", result.RetryAfter)
		}
		if _, ok := IsRateLimitError(err); !ok {
			t.Error("expected a RateLimitError in the chain")
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("server saw %d requests, want 1", got)
		}
	})

	t.Run("single attempt on server error", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "boom"},
			})
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "test"}},
		})

		if err == nil {
			t.Error("expected error")
		}
		if result.ErrorType != "http_error" {
			t.Errorf("ErrorType = %s, want http_error", result.ErrorType)
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("server saw %d requests, want 1", got)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"id":      "chatcmpl-test",
				"object":  "chat.completion",
				"model":   "gpt-4o-mini",
				"choices": []map[string]any{},
				"usage":   map[string]any{},
			})
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "test"}},
		})

		if err == nil {
			t.Error("expected error")
		}
		if result.ErrorType != "empty_response" {
			t.Errorf("ErrorType = %s, want empty_response", result.ErrorType)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Chat(ctx, &ChatRequest{
			Messages: []Message{{Role: "user", Content: "test"}},
		})
		if err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}

func TestOpenAIClient_Config(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client := NewOpenAIClient(OpenAIConfig{
			APIKey: "test-key",
		})

		if client.Name() != OpenAIName {
			t.Errorf("Name() = %s, want %s", client.Name(), OpenAIName)
		}
		if client.defaultModel != openAIDefaultModel {
			t.Errorf("defaultModel = %s, want %s", client.defaultModel, openAIDefaultModel)
		}
		if client.RequestsPerSecond() != 1.0 {
			t.Errorf("RequestsPerSecond() = %f, want 1.0", client.RequestsPerSecond())
		}
	})

	t.Run("custom model", func(t *testing.T) {
		client := NewOpenAIClient(OpenAIConfig{
			APIKey:       "test-key",
			DefaultModel: "gpt-4o",
		})

		if client.defaultModel != "gpt-4o" {
			t.Errorf("defaultModel = %s, want gpt-4o", client.defaultModel)
		}
	})

	t.Run("interface compliance", func(t *testing.T) {
		var _ LLMClient = (*OpenAIClient)(nil)
	})
}

// TestOpenAIIntegration runs real LLM calls against the OpenAI API.
// Requires OPENAI_API_KEY environment variable to be set.
func TestOpenAIIntegration(t *testing.T) {
	cfg := LoadTestConfig()
	if !cfg.HasOpenAI() {
		t.Skip("OPENAI_API_KEY not set - skipping integration test")
	}

	client := cfg.NewOpenAIClient()

	t.Run("simple chat", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.Chat(ctx, &ChatRequest{
			Messages: []Message{
				{Role: "user", Content: "Say 'hello' and nothing else."},
			},
			MaxTokens:   10,
			Temperature: 0,
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Chat failed: %s", result.ErrorMessage)
		}
		if result.Content == "" {
			t.Error("expected non-empty content")
		}
		t.Logf("Response: %q", result.Content)
	})
}
