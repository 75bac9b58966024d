package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
	"github.com/foodrescuehub/foodrescue/internal/platform/storage/sqlitemigrate"
	"github.com/foodrescuehub/foodrescue/internal/storage/sqlite"
)

func migrateCmd(settingsPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and report their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Load(*settingsPath)
			if err != nil {
				return err
			}

			// Open applies any pending embedded migrations.
			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			applied, err := sqlitemigrate.AppliedMigrations(store.DB())
			if err != nil {
				return fmt.Errorf("list applied migrations: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, record := range applied {
				fmt.Fprintf(out, "%s\tapplied %s\n", record.Name, record.AppliedAt.Format(time.RFC3339))
			}
			fmt.Fprintf(out, "%d migrations applied\n", len(applied))
			return nil
		},
	}
}
