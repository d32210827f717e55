package main

import (
	"github.com/spf13/cobra"

	"github.com/intelboard/intelboard/internal/config"
	"github.com/intelboard/intelboard/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the IntelBoard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intelboard",
		Short: "IntelBoard - multi-domain intelligence platform backend",
		Long: `IntelBoard is the backend for a multi-domain security intelligence
platform. This CLI manages its database schema, the seed admin account,
and user registration.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	// Add subcommands
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// loadConfig resolves configuration for a subcommand and installs the
// default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return cfg, err
	}
	logging.SetDefault("intelboard", version, cfg.Log.Format, cfg.Log.Level)
	return cfg, nil
}
