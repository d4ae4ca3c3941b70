package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// MetricsSummaryResponse is the response for summary queries.
type MetricsSummaryResponse struct {
	Count            int     `json:"count"`
	TotalCostUSD     float64 `json:"total_cost_usd"`
	TotalTokens      int     `json:"total_tokens"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
	SuccessCount     int     `json:"success_count"`
	ErrorCount       int     `json:"error_count"`
	AvgCostUSD       float64 `json:"avg_cost_usd"`
	AvgTokens        float64 `json:"avg_tokens"`
	AvgTimeSeconds   float64 `json:"avg_time_seconds"`
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get metrics summary
//	@Description	Get aggregate cost, token, and timing totals with optional filtering
//	@Tags			metrics
//	@Produce		json
//	@Param			analysis_id	query		string	false	"Filter by analysis ID"
//	@Param			stage		query		string	false	"Filter by pipeline stage"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Success		200			{object}	MetricsSummaryResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.MetricsStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "metrics store not available")
		return
	}

	q := r.URL.Query()
	f := metrics.Filter{
		AnalysisID: q.Get("analysis_id"),
		Stage:      q.Get("stage"),
		Provider:   q.Get("provider"),
		Model:      q.Get("model"),
	}

	summary := store.GetSummary(f)

	writeJSON(w, http.StatusOK, MetricsSummaryResponse{
		Count:            summary.Count,
		TotalCostUSD:     summary.TotalCostUSD,
		TotalTokens:      summary.TotalTokens,
		TotalTimeSeconds: summary.TotalTime.Seconds(),
		SuccessCount:     summary.SuccessCount,
		ErrorCount:       summary.ErrorCount,
		AvgCostUSD:       summary.AvgCostUSD,
		AvgTokens:        summary.AvgTokens,
		AvgTimeSeconds:   summary.AvgTimeSeconds,
	})
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var analysisID, stage, provider, model string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Get metrics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())

			// Build query string
			params := url.Values{}
			if analysisID != "" {
				params.Set("analysis_id", analysisID)
			}
			if stage != "" {
				params.Set("stage", stage)
			}
			if provider != "" {
				params.Set("provider", provider)
			}
			if model != "" {
				params.Set("model", model)
			}

			path := "/api/metrics/summary"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp MetricsSummaryResponse
			if err := client.Get(ctx, path, &resp); err != nil {
				return err
			}

			fmt.Printf("Metrics Summary\n")
			fmt.Printf("===============\n")
			fmt.Printf("  Count:       %d\n", resp.Count)
			fmt.Printf("  Success:     %d\n", resp.SuccessCount)
			fmt.Printf("  Errors:      %d\n", resp.ErrorCount)
			fmt.Println()
			fmt.Printf("  Total Cost:  $%.4f\n", resp.TotalCostUSD)
			fmt.Printf("  Avg Cost:    $%.6f\n", resp.AvgCostUSD)
			fmt.Println()
			fmt.Printf("  Total Tokens: %d\n", resp.TotalTokens)
			fmt.Printf("  Avg Tokens:   %.1f\n", resp.AvgTokens)
			fmt.Println()
			fmt.Printf("  Total Time:   %s\n", time.Duration(resp.TotalTimeSeconds*float64(time.Second)))
			fmt.Printf("  Avg Time:     %.2fs\n", resp.AvgTimeSeconds)

			return nil
		},
	}

	cmd.Flags().StringVar(&analysisID, "analysis-id", "", "Filter by analysis ID")
	cmd.Flags().StringVar(&stage, "stage", "", "Filter by stage")
	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")

	return cmd
}
