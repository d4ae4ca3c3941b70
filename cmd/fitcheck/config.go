package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/config"
	"github.com/jackzampolin/fitcheck/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the local configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default configuration file to the fitcheck home directory.

The generated file references API keys through ${ENV_VAR} placeholders so
secrets stay out of the file itself.

Examples:
  fitcheck config init                 # Write ~/.fitcheck/config.yaml
  fitcheck config init --force         # Overwrite an existing file
  fitcheck config init --home ./tmp    # Write under a custom home`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := h.ConfigPath()
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration fitcheck would run with, after merging
defaults, the config file, and FITCHECK_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		return api.Output(cm.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
