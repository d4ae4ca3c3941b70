package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fitcheck",
	Short: "Outfit analysis pipeline powered by vision and text models",
	Long: `Fitcheck turns a photo of an outfit into a structured style report
using a two-stage LLM pipeline.

The pipeline includes:
  - A vision stage that describes the clothing in the photo
  - A structuring stage that renders the description as a fixed-shape report
  - Per-call cost, token, and latency tracking
  - A JSON Schema contract for the report shape`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.fitcheck/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "fitcheck home directory (default: ~/.fitcheck)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
