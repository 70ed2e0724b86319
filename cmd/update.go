package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"threestar/internal/application"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Fetch the latest draws and merge them into history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *application.App) error {
				result, err := app.Update(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "✅ history updated: +%d rows (total %d)\n", result.Added, result.Total)

				return err
			})
		},
	}
}
