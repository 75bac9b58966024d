package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foodrescuehub/foodrescue/internal/notify"
	"github.com/foodrescuehub/foodrescue/internal/platform/otel"
	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
	"github.com/foodrescuehub/foodrescue/internal/storage/sqlite"
	"github.com/foodrescuehub/foodrescue/internal/web"
)

func serveCmd(settingsPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Load(*settingsPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := otel.Setup(ctx, "foodrescue-web")
			if err != nil {
				log.Printf("otel setup: %v", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("otel shutdown: %v", err)
				}
			}()

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("close store: %v", err)
				}
			}()

			logger := log.Default()
			workflow := notify.NewWorkflow(store, notify.ConsoleMailer{Logger: logger}, cfg.BaseURL, logger)
			handler := web.NewHandler(store, workflow, cfg, logger)
			server, err := web.NewServer(cfg, handler, logger)
			if err != nil {
				return err
			}
			return server.ListenAndServe(ctx)
		},
	}
}
