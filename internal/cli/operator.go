package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
	"github.com/foodrescuehub/foodrescue/internal/storage"
	"github.com/foodrescuehub/foodrescue/internal/storage/sqlite"
	"github.com/foodrescuehub/foodrescue/internal/web"
)

func createOperatorCmd(settingsPath *string) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-operator",
		Short: "Create an operator account for the web surface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Load(*settingsPath)
			if err != nil {
				return err
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			hash, err := web.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			err = store.CreateOperator(cmd.Context(), storage.Operator{
				Username:     username,
				Email:        email,
				PasswordHash: hash,
			})
			if errors.Is(err, storage.ErrAlreadyExists) {
				return fmt.Errorf("operator %s already exists", username)
			}
			if err != nil {
				return fmt.Errorf("create operator: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s created\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name (required)")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&password, "password", "", "login password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
