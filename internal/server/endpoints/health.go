package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Pipeline string `json:"pipeline,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(ctx, "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Pipeline: "ok"}

	if svcctx.PipelineFrom(r.Context()) == nil {
		resp.Status = "degraded"
		resp.Pipeline = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes the analysis pipeline)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if wait > 0 {
				if err := api.WaitForReady(ctx, getServerURL(), wait); err != nil {
					return err
				}
			}
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(ctx, "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:   %s\n", resp.Status)
			if resp.Pipeline != "" {
				fmt.Printf("Pipeline: %s\n", resp.Pipeline)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Poll until the server is ready, for up to this long (e.g. 30s)")
	return cmd
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Providers ProvidersStatus `json:"providers"`
	Pipeline  PipelineStatus  `json:"pipeline"`
}

// ProvidersStatus shows registered LLM providers.
type ProvidersStatus struct {
	LLM []string `json:"llm"`
}

// PipelineStatus shows the analysis pipeline configuration.
type PipelineStatus struct {
	Ready       bool   `json:"ready"`
	Provider    string `json:"provider,omitempty"`
	VisionModel string `json:"vision_model,omitempty"`
	TextModel   string `json:"text_model,omitempty"`
	Strict      bool   `json:"strict"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server: "running",
	}

	registry := svcctx.RegistryFrom(r.Context())
	if registry != nil {
		resp.Providers.LLM = registry.ListLLM()
	}

	pipeline := svcctx.PipelineFrom(r.Context())
	if pipeline != nil {
		resp.Pipeline.Ready = true
		resp.Pipeline.Provider = pipeline.Provider()
		resp.Pipeline.VisionModel = pipeline.VisionModel()
		resp.Pipeline.TextModel = pipeline.TextModel()
		resp.Pipeline.Strict = pipeline.Strict()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(ctx, "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Pipeline:\n")
			fmt.Printf("  Ready:        %t\n", resp.Pipeline.Ready)
			fmt.Printf("  Provider:     %s\n", resp.Pipeline.Provider)
			fmt.Printf("  Vision Model: %s\n", resp.Pipeline.VisionModel)
			fmt.Printf("  Text Model:   %s\n", resp.Pipeline.TextModel)
			fmt.Printf("  Strict:       %t\n", resp.Pipeline.Strict)
			fmt.Printf("Providers:\n")
			fmt.Printf("  LLM: %v\n", resp.Providers.LLM)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
