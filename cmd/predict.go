package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"threestar/internal/application"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/predictor"
	"threestar/internal/domain/value"
)

func newPredictCmd() *cobra.Command {
	var (
		mode   string
		window string
		count  int
		write  bool
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print predicted sets, optionally writing CSV/HTML reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch entity.PredictionMode(mode) {
			case entity.PredictionUniform, entity.PredictionWeighted:
			default:
				return fmt.Errorf("unknown mode %q (uniform or weighted)", mode)
			}

			return withApp(cmd, func(ctx context.Context, app *application.App) error {
				result, err := app.Predict(ctx, application.PredictOptions{
					Mode:   entity.PredictionMode(mode),
					Window: value.ParseWindow(window),
					Count:  count,
					Report: write,
					Notify: notify,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()

				for i, set := range result.Prediction.Sets {
					fmt.Fprintf(out, "%2d. %d %d %d\n", i+1, set[0], set[1], set[2])
				}

				for _, path := range result.Files {
					fmt.Fprintf(out, "📄 %s\n", path)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(entity.PredictionWeighted), "uniform or weighted")
	cmd.Flags().StringVarP(&window, "window", "w", value.WindowAll.Key(), "history window: 近10期, 近50期, 近100期 or 全部")
	cmd.Flags().IntVarP(&count, "count", "n", predictor.DefaultSets, "number of sets")
	cmd.Flags().BoolVar(&write, "report", false, "write predicted_sets.csv and an HTML report under <BASE_DIR>/report")
	cmd.Flags().BoolVar(&notify, "notify", false, "send the prediction to the Telegram chat")

	return cmd
}
