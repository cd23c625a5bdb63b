package main

import (
	"fmt"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  "Create the job, resume_features, application and job_keywords tables in the configured database if they do not exist.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			logger := global.logger(cfg)

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.close()

			// The SQLite store migrates on open.
			if database, ok := store.persistentStore.(*db.DB); ok {
				if err := database.Migrate(cmd.Context()); err != nil {
					return err
				}
			}

			logger.Info().Str("driver", store.driver).Msg("schema is up to date")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", driverName(store.driver))
			return nil
		},
	}
}

func driverName(driver string) string {
	if driver == config.DriverPostgres {
		return "PostgreSQL"
	}
	return "SQLite"
}
