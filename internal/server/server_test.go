package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jackzampolin/fitcheck/internal/config"
	"github.com/jackzampolin/fitcheck/internal/providers"
	"github.com/jackzampolin/fitcheck/internal/server/endpoints"
	"github.com/jackzampolin/fitcheck/internal/testutil"
)

func TestNew_Defaults(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := srv.Addr(), "127.0.0.1:8080"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if srv.Registry() == nil {
		t.Error("Registry() = nil, want a provider registry")
	}
	if srv.Pipeline() != nil {
		t.Error("Pipeline() != nil before Start")
	}
}

func TestServer_StartFailsOnBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name: "pipeline provider not configured",
			config: `llm_providers:
  openrouter:
    enabled: false
  mock:
    type: mock
    api_key: test-key
    enabled: true
pipeline:
  provider: ghost
`,
		},
		{
			name: "api key resolves to empty",
			config: `llm_providers:
  openrouter:
    enabled: false
  mock:
    type: mock
    api_key: ${FITCHECK_TEST_MISSING_KEY}
    enabled: true
pipeline:
  provider: mock
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile := t.TempDir() + "/config.yaml"
			writeConfigFile(t, cfgFile, tt.config)

			cm, err := config.NewManager(cfgFile)
			if err != nil {
				t.Fatalf("config.NewManager() error = %v", err)
			}

			port, err := testutil.FindFreePort()
			if err != nil {
				t.Fatalf("failed to find free port: %v", err)
			}

			srv, err := New(Config{Port: port, ConfigManager: cm})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Start(ctx); err == nil {
				t.Error("Start() = nil, want a config validation error")
			}
			if srv.IsRunning() {
				t.Error("IsRunning() = true after failed Start")
			}
		})
	}
}

// TestServer_NotInitialized starts the server without a config manager and
// verifies that probes stay up while the pipeline endpoints refuse requests.
func TestServer_NotInitialized(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	srv, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	serverCtx, serverCancel := context.WithCancel(ctx)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	if err := waitForServer(ctx, cfg.URL(), 15*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := http.Get(cfg.URL() + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var health endpoints.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			t.Fatalf("failed to decode health response: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("health.Status = %q, want %q", health.Status, "ok")
		}
	})

	t.Run("ready_reports_degraded", func(t *testing.T) {
		resp, err := http.Get(cfg.URL() + "/ready")
		if err != nil {
			t.Fatalf("ready request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("ready status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
		}

		var ready endpoints.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
			t.Fatalf("failed to decode ready response: %v", err)
		}
		if ready.Status != "degraded" {
			t.Errorf("ready.Status = %q, want %q", ready.Status, "degraded")
		}
		if ready.Pipeline != "not_initialized" {
			t.Errorf("ready.Pipeline = %q, want %q", ready.Pipeline, "not_initialized")
		}
	})

	t.Run("api_endpoints_refuse", func(t *testing.T) {
		resp, err := http.Get(cfg.URL() + "/api/prompts")
		if err != nil {
			t.Fatalf("prompts request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("prompts status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
		}

		var errResp endpoints.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			t.Fatalf("failed to decode error response: %v", err)
		}
		if errResp.Error != "server not fully initialized" {
			t.Errorf("error = %q, want %q", errResp.Error, "server not fully initialized")
		}
	})

	serverCancel()
	if err := testutil.WaitForShutdown(serverErr, 30*time.Second); err != nil {
		t.Errorf("server shutdown error: %v", err)
	}
}

// waitForServer polls the health endpoint until the server responds.
func waitForServer(ctx context.Context, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s not healthy after %s", baseURL, timeout)
}

// testConfigYAML renders a config whose pipeline runs against the mock
// provider. The mock type produces no client of its own, so callers must
// register one on the server's registry before Start.
func testConfigYAML(visionModel, textModel string, strict bool) string {
	return fmt.Sprintf(`logging:
  level: error
llm_providers:
  openrouter:
    enabled: false
  mock:
    type: mock
    model: mock-model
    api_key: test-key
    enabled: true
pipeline:
  provider: mock
  vision_model: %s
  text_model: %s
  vision_max_tokens: 400
  text_max_tokens: 600
  strict: %t
`, visionModel, textModel, strict)
}

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

// newMockServer builds a server from cfg.ConfigFile with the given mock
// client registered under the "mock" provider name.
func newMockServer(t *testing.T, cfg testutil.ServerConfig, mock *providers.MockClient) (*Server, *config.Manager) {
	t.Helper()

	cm, err := config.NewManager(cfg.ConfigFile)
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}

	srv, err := New(Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		ConfigManager: cm,
		Logger:        cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv.Registry().RegisterLLM(providers.MockClientName, mock)
	return srv, cm
}

// postImage uploads data as a multipart file under the given field name.
func postImage(t *testing.T, baseURL, field, filename string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	resp, err := http.Post(baseURL+"/api/analyze", form.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("analyze request failed: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(body)
}
