package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// MetricsCostResponse is the response for cost queries.
type MetricsCostResponse struct {
	TotalCostUSD float64            `json:"total_cost_usd"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
}

// MetricsCostEndpoint handles GET /api/metrics/cost.
type MetricsCostEndpoint struct{}

func (e *MetricsCostEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/cost", e.handler
}

func (e *MetricsCostEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get cost breakdown
//	@Description	Get total cost with optional breakdown by stage/provider/model
//	@Tags			metrics
//	@Produce		json
//	@Param			analysis_id	query		string	false	"Filter by analysis ID"
//	@Param			stage		query		string	false	"Filter by pipeline stage"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			by			query		string	false	"Breakdown by: stage, provider, or model"
//	@Success		200			{object}	MetricsCostResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics/cost [get]
func (e *MetricsCostEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	var resp MetricsCostResponse

	switch q.Get("by") {
	case "stage":
		resp.Breakdown = store.CostByStage(f)
	case "provider":
		resp.Breakdown = store.CostByProvider(f)
	case "model":
		resp.Breakdown = store.CostByModel(f)
	default:
		resp.TotalCostUSD = store.TotalCost(f)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for _, v := range resp.Breakdown {
		resp.TotalCostUSD += v
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *MetricsCostEndpoint) Command(getServerURL func() string) *cobra.Command {
	var analysisID, stage, provider, model, by string

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Get cost summary",
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
			if by != "" {
				params.Set("by", by)
			}

			path := "/api/metrics/cost"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp MetricsCostResponse
			if err := client.Get(ctx, path, &resp); err != nil {
				return err
			}

			return api.Output(resp)
		},
	}

	cmd.Flags().StringVar(&analysisID, "analysis-id", "", "Filter by analysis ID")
	cmd.Flags().StringVar(&stage, "stage", "", "Filter by stage")
	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	cmd.Flags().StringVar(&by, "by", "", "Breakdown by: stage, provider, or model")

	return cmd
}
