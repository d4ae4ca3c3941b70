package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/config"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// ConfigResponse contains the server's active configuration.
type ConfigResponse struct {
	Config *config.Config `json:"config"`
}

// ConfigEndpoint handles GET /api/config.
type ConfigEndpoint struct{}

func (e *ConfigEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/config", e.handler
}

func (e *ConfigEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get the active configuration
//	@Description	Get the server's running configuration with API keys redacted
//	@Tags			config
//	@Produce		json
//	@Success		200	{object}	ConfigResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/config [get]
func (e *ConfigEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigManagerFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusInternalServerError, "config manager not available")
		return
	}

	cfg := mgr.Get()

	// Keys never leave the server, whether literal or ${ENV_VAR} references.
	redacted := *cfg
	redacted.LLMProviders = make(map[string]config.LLMProviderCfg, len(cfg.LLMProviders))
	for name, p := range cfg.LLMProviders {
		if p.APIKey != "" {
			p.APIKey = "[redacted]"
		}
		redacted.LLMProviders[name] = p
	}

	writeJSON(w, http.StatusOK, ConfigResponse{Config: &redacted})
}

func (e *ConfigEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the server's active configuration (keys redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp ConfigResponse
			if err := client.Get(ctx, "/api/config", &resp); err != nil {
				return err
			}
			return api.Output(resp.Config)
		},
	}
}
