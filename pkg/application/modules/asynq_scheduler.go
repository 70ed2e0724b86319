package modules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"threestar/pkg/logx"
)

type AsynqPeriodicTask struct {
	Cron string
	Task *asynq.Task
	Opts []asynq.Option
}

// AsynqScheduler ставит периодические задачи в очередь по cron-выражениям.
type AsynqScheduler struct {
	Redis    AsynqRedis
	Location *time.Location
}

func (s AsynqScheduler) Run(
	ctx context.Context,
	g *errgroup.Group,
	tasks ...AsynqPeriodicTask,
) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.Redis.clientOpt(), &asynq.SchedulerOpts{
			Location: s.Location,
			PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
				if err != nil {
					logger(ctx).Error("asynq enqueue failed", logx.Error(err))
					return
				}
				logger(ctx).Info("task enqueued",
					slog.String(logx.FieldTaskType, info.Type),
					slog.String("task-id", info.ID),
				)
			},
		})

		for _, t := range tasks {
			entryID, err := scheduler.Register(t.Cron, t.Task, t.Opts...)
			if err != nil {
				return fmt.Errorf("scheduler.Register(%q): %w", t.Cron, err)
			}

			logger(ctx).Info("periodic task registered",
				slog.String(logx.FieldTaskType, t.Task.Type()),
				slog.String("cron", t.Cron),
				slog.String("entry-id", entryID),
			)
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		<-ctx.Done()

		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}
