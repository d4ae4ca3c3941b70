package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/outfit"
)

// SchemaEndpoint serves the outfit report JSON Schema.
type SchemaEndpoint struct{}

func (e *SchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schema", e.handler
}

func (e *SchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Get the report schema
//	@Description	Get the JSON Schema every outfit report conforms to
//	@Tags			schema
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/api/schema [get]
func (e *SchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(outfit.ReportSchemaJSON))
}

func (e *SchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Get the outfit report JSON Schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var schema map[string]any
			if err := client.Get(ctx, "/api/schema", &schema); err != nil {
				return err
			}
			return api.Output(schema)
		},
	}
}
