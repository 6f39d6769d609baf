package main

import (
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/theory-forum/backend/internal/database"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := commonRun(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db.GetDB()); err != nil {
				return err
			}
			logger.Info("database migrated")
			return nil
		},
	}
}
