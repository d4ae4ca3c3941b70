package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running fitcheck server via HTTP.

These commands require a running server (fitcheck serve).
Use --server to specify a custom server URL.

Examples:
  fitcheck api health               # Check server health
  fitcheck api analyze photo.jpg    # Analyze an outfit photo
  fitcheck api metrics summary      # Show pipeline cost totals`,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Metrics and cost tracking commands",
}

var llmcallsCmd = &cobra.Command{
	Use:   "llmcalls",
	Short: "LLM call history commands",
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Pipeline prompt inspection commands",
}

var apiConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Server configuration commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Analysis and its report contract at top level
	apiCmd.AddCommand((&endpoints.AnalyzeEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SchemaEndpoint{}).Command(getServerURL))

	// Metrics as subcommand group
	metricsCmd.AddCommand((&endpoints.ListMetricsEndpoint{}).Command(getServerURL))
	metricsCmd.AddCommand((&endpoints.MetricsCostEndpoint{}).Command(getServerURL))
	metricsCmd.AddCommand((&endpoints.MetricsSummaryEndpoint{}).Command(getServerURL))

	// LLM calls as subcommand group
	llmcallsCmd.AddCommand((&endpoints.ListLLMCallsEndpoint{}).Command(getServerURL))
	llmcallsCmd.AddCommand((&endpoints.GetLLMCallEndpoint{}).Command(getServerURL))
	llmcallsCmd.AddCommand((&endpoints.LLMCallCountsEndpoint{}).Command(getServerURL))

	// Prompts as subcommand group
	promptsCmd.AddCommand((&endpoints.ListPromptsEndpoint{}).Command(getServerURL))
	promptsCmd.AddCommand((&endpoints.GetPromptEndpoint{}).Command(getServerURL))

	// Server-side config view
	apiConfigCmd.AddCommand((&endpoints.ConfigEndpoint{}).Command(getServerURL))

	// Swagger spec download and UI pointer
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerUIEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(metricsCmd)
	apiCmd.AddCommand(llmcallsCmd)
	apiCmd.AddCommand(promptsCmd)
	apiCmd.AddCommand(apiConfigCmd)
	rootCmd.AddCommand(apiCmd)
}
