package main

import (
	"context"

	"github.com/spf13/cobra"

	"threestar/internal/application"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the scheduled updater when REDIS_ADDRESS is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *application.App) error {
				if err := app.Serve(ctx); err != nil {
					return err
				}

				logger(ctx).Info("application stopped")

				return nil
			})
		},
	}
}
