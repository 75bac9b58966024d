package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
	"github.com/foodrescuehub/foodrescue/internal/seed"
	"github.com/foodrescuehub/foodrescue/internal/storage/sqlite"
)

func seedCmd(settingsPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Manage reference and demo data",
	}
	cmd.AddCommand(
		seedCategoriesCmd(settingsPath),
		seedSampleCmd(settingsPath),
		seedClearCmd(settingsPath),
	)
	return cmd
}

func seedCategoriesCmd(settingsPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Insert the standard food categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(settingsPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := seed.EnsureCategories(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d categories created, %d already present\n",
				created, len(seed.Categories())-created)
			return nil
		},
	}
}

func seedSampleCmd(settingsPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Load the Metro Atlanta demo fixtures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(settingsPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			counts, err := seed.LoadSampleData(cmd.Context(), store, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("load sample data: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"created %d regions, %d food banks, %d grocery stores, %d donations\n",
				counts.Regions, counts.FoodBanks, counts.GroceryStores, counts.Donations)
			return nil
		},
	}
}

func seedClearCmd(settingsPath *string) *cobra.Command {
	var confirm, keepCategories bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all platform data (operators survive)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return errors.New("refusing to delete data without --confirm")
			}
			store, err := openStore(settingsPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			counts, err := store.ClearPlatformData(cmd.Context(), keepCategories)
			if err != nil {
				return fmt.Errorf("clear data: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"deleted %d notifications, %d stops, %d routes, %d donations, %d stores, %d banks, %d regions, %d categories\n",
				counts.Notifications, counts.RouteStops, counts.Routes, counts.Donations,
				counts.GroceryStores, counts.FoodBanks, counts.Regions, counts.Categories)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "actually delete the data")
	cmd.Flags().BoolVar(&keepCategories, "keep-categories", false, "keep the food category reference data")
	return cmd
}

func openStore(settingsPath *string) (*sqlite.Store, error) {
	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}
