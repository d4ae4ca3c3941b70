package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// ListMetricsResponse is the response for listing metrics.
type ListMetricsResponse struct {
	Metrics []metrics.Metric `json:"metrics"`
	Count   int              `json:"count"`
}

// ListMetricsEndpoint handles GET /api/metrics.
type ListMetricsEndpoint struct{}

func (e *ListMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *ListMetricsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List metrics
//	@Description	List LLM call metrics with optional filtering
//	@Tags			metrics
//	@Produce		json
//	@Param			analysis_id	query		string	false	"Filter by analysis ID"
//	@Param			stage		query		string	false	"Filter by pipeline stage"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			success		query		bool	false	"Filter by success status (true or false)"
//	@Param			limit		query		int		false	"Maximum results (default 100)"
//	@Success		200			{object}	ListMetricsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *ListMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid success filter: %q must be true or false", v))
			return
		}
		f.Success = &b
	}

	// Parse limit
	limit := 100
	if l := q.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result := store.List(f, limit)

	writeJSON(w, http.StatusOK, ListMetricsResponse{
		Metrics: result,
		Count:   len(result),
	})
}

func (e *ListMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var analysisID, stage, provider, model string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List metrics",
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
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/metrics"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp ListMetricsResponse
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
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum results")

	return cmd
}
