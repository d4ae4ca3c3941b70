package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/config"
	"github.com/jackzampolin/fitcheck/internal/home"
	"github.com/jackzampolin/fitcheck/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fitcheck server",
	Long: `Start the fitcheck HTTP server.

The server loads its configuration, connects the configured LLM provider,
and serves the analysis API until interrupted (Ctrl+C or SIGTERM).
Configuration changes on disk are picked up without a restart.

The server provides:
  /health       - Basic server health check
  /ready        - Readiness check (includes pipeline status)
  /api/analyze  - Outfit analysis from an uploaded photo

Examples:
  fitcheck serve                 # Start on default port 8080
  fitcheck serve --port 3000     # Start on custom port
  fitcheck serve --host 0.0.0.0  # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		// Set up logger at the configured level
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.Logging.SlogLevel(),
		}))

		// Explicit flags beat the config file
		host := cfg.Server.Host
		port := cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		cm.WatchConfig()

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
