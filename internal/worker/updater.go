package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/xid"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/pkg/contextx"
	"threestar/pkg/logx"
)

const (
	TypeHistoryUpdate = "history:update"

	updateTaskMaxRetry = 2
	updateTaskTimeout  = 2 * time.Minute
)

type historyUpdater interface {
	Update(ctx context.Context) (entity.UpdateResult, error)
}

// UpdateWorker выполняет задачи обновления истории из очереди.
type UpdateWorker struct {
	history historyUpdater
}

func NewUpdateWorker(history historyUpdater) *UpdateWorker {
	return &UpdateWorker{history: history}
}

// NewUpdateTask - задача для планировщика и ручной постановки в очередь.
func NewUpdateTask() *asynq.Task {
	return asynq.NewTask(
		TypeHistoryUpdate,
		nil,
		asynq.MaxRetry(updateTaskMaxRetry),
		asynq.Timeout(updateTaskTimeout),
	)
}

// Handle не повторяет задачу, если сайт просто не отдал строк: до
// следующего запуска по расписанию там ничего не появится.
func (w *UpdateWorker) Handle(ctx context.Context, t *asynq.Task) error {
	traceID, ok := asynq.GetTaskID(ctx)
	if !ok {
		traceID = xid.New().String()
	}

	ctx = contextx.WithTraceID(ctx, contextx.TraceID(traceID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldTraceID, traceID),
		slog.String(logx.FieldTaskType, t.Type()),
	))

	result, err := w.history.Update(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			logger(ctx).Warn("scheduled update skipped", logx.Error(err))
			return fmt.Errorf("history.Update: %w: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("history.Update: %w", err)
	}

	logger(ctx).Info("scheduled update done",
		slog.Int(logx.FieldAdded, result.Added),
		slog.Int(logx.FieldTotal, result.Total),
	)

	return nil
}
