package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/theory-forum/backend/internal/config"
	"github.com/emilythestrangee/theory-forum/backend/internal/database"
	"github.com/emilythestrangee/theory-forum/backend/internal/logging"
)

const programName = "forumd"

var globalFlags = struct {
	debug bool
}{}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Theory forum API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if globalFlags.debug {
				cfg.LogLevel = "debug"
			}
			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(reconcileCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error(), "component", programName)
		os.Exit(1)
	}
}

// commonRun builds the logger and opens the database for a subcommand.
func commonRun(cmd *cobra.Command) (*config.Config, *slog.Logger, database.Service, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, nil, nil, fmt.Errorf("no config found in context")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With("component", programName)

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
