package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"threestar/internal/application"
	"threestar/internal/config"
	"threestar/pkg/contextx"
	"threestar/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lotto",
		Short:        "3-Star lotto predictions and draw history",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newUpdateCmd(),
		newPredictCmd(),
	)

	return root
}

// withApp загружает конфиг, настраивает логгер и собирает App для команды.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *application.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		return err
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.App.LogLevel,
		TimeFormat: time.DateTime,
	})).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx := contextx.WithLogger(cmd.Context(), log)

	app, err := application.New(ctx, cfg)
	if err != nil {
		log.Error("application.New", logx.Error(err))
		return err
	}
	defer app.Close(ctx)

	if err = fn(ctx, app); err != nil {
		log.Error("application failed", logx.Error(err))
		return err
	}

	return nil
}
