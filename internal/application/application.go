package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"threestar/internal/config"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/history"
	"threestar/internal/domain/service/predictor"
	"threestar/internal/domain/value"
	"threestar/internal/infrastructure/fetcher"
	"threestar/internal/infrastructure/notifier"
	"threestar/internal/infrastructure/persistence"
	"threestar/internal/infrastructure/report"
	"threestar/internal/infrastructure/storage"
	"threestar/internal/server"
	"threestar/internal/transport/bot"
	bothandler "threestar/internal/transport/bot/handler"
	"threestar/internal/worker"
	"threestar/pkg/application/connectors"
	"threestar/pkg/application/modules"
	"threestar/pkg/logx"
	"threestar/pkg/middlewarex"
	"threestar/pkg/probe"
)

const queueDefault = "default"

// App собирает зависимости один раз и отдаёт их командам serve/update/predict.
type App struct {
	cfg config.Config

	pg        *connectors.Postgres
	store     history.Store
	history   *history.Service
	predictor *predictor.Predictor
	reports   *report.Writer
	bot       *notifier.TelegramBot
	checks    []probe.Check
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{cfg: cfg}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}

	dedupKey, err := value.ParseDedupKey(cfg.History.DedupKey)
	if err != nil {
		return nil, fmt.Errorf("value.ParseDedupKey: %w", err)
	}

	scraper := fetcher.New(fetcher.Config{
		URLs:               cfg.Fetcher.URLs,
		Timeout:            cfg.Fetcher.Timeout,
		MaxRetries:         cfg.Fetcher.MaxRetries,
		Backoff:            cfg.Fetcher.Backoff,
		MaxRows:            cfg.Fetcher.MaxRows,
		UserAgent:          cfg.Fetcher.UserAgent,
		InsecureSkipVerify: cfg.Fetcher.InsecureSkipVerify,
		LogFieldMaxLen:     cfg.Server.LogFieldMaxLen,
	})

	app.history = history.NewService(app.store, scraper).
		WithSource(cfg.History.SourceLabel).
		WithDedupKey(dedupKey).
		WithRecordsCache(cfg.History.CacheTTL)

	if cfg.Bot.Enabled() {
		app.bot, err = notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		app.history.WithNotifier(app.bot)
	}

	rng := predictor.NewSource()
	if cfg.Predictor.Seed != 0 {
		rng = predictor.NewSeededSource(cfg.Predictor.Seed)
	}

	app.predictor = predictor.NewPredictor(app.history, rng)
	app.reports = report.NewWriter(cfg.App.BaseDir)

	return app, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.History.Backend {
	case config.BackendPostgres:
		a.pg = &connectors.Postgres{
			DSN:             a.cfg.Postgres.DSN,
			MaxOpenConns:    a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    a.cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: a.cfg.Postgres.ConnMaxLifetime,
		}

		db := a.pg.Client(ctx)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("db.PingContext: %w", err)
		}

		a.store = persistence.NewDrawRepository(db)
		a.checks = append(a.checks, probe.Check{Name: "postgres", Check: a.pg.Ping})
	default:
		csvStore := storage.NewCSVStore(a.cfg.App.BaseDir, a.cfg.History.CSVPath)

		a.store = csvStore
		a.checks = append(a.checks, probe.Check{
			Name:  "history",
			Check: func(context.Context) error { return dirWritable(filepath.Dir(csvStore.Path())) },
		})
	}

	logger(ctx).Info("history store ready", slog.String(logx.FieldBackend, a.cfg.History.Backend))

	return nil
}

func (a *App) Close(ctx context.Context) {
	if a.pg != nil {
		a.pg.Close(ctx)
	}
}

// Handler - HTTP API со стеком middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.AccessLogging(logx.NewSensitiveDataMasker(), a.cfg.Server.LogFieldMaxLen),
	)

	server.NewServer(
		server.NewLottoServer(a.predictor, a.history),
	).RegisterRoutes(r)

	return r
}

// Serve запускает API, probe и metrics; при заданном REDIS_ADDRESS ещё
// воркер очереди и планировщик обновлений.
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ListenAddress:   a.cfg.Server.ListenAddress,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, a.Handler())

	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.Server.ProbeListenAddress,
	}.Run(ctx, g, a.checks...)

	modules.MetricServer{
		ListenAddress: a.cfg.Server.MetricsListenAddress,
	}.Run(ctx, g)

	if a.cfg.Scheduler.Enabled() {
		a.runScheduler(ctx, g)
	}

	if a.cfg.Bot.CommandsEnabled() {
		commands, err := bot.New(a.cfg.Bot.Token, a.cfg.Bot.Admin(), bothandler.New(a.predictor, a.history))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			return commands.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func (a *App) runScheduler(ctx context.Context, g *errgroup.Group) {
	redis := modules.AsynqRedis{
		Address:  a.cfg.Scheduler.RedisAddress,
		Username: a.cfg.Scheduler.RedisUsername,
		Password: a.cfg.Scheduler.RedisPassword,
		DB:       a.cfg.Scheduler.RedisDB,
	}

	updater := worker.NewUpdateWorker(a.history)

	modules.AsynqServer{
		Redis:           redis,
		Concurrency:     a.cfg.Scheduler.Concurrency,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, modules.AsynqQueues{queueDefault: 1}, modules.AsynqHandler{
		Pattern: worker.TypeHistoryUpdate,
		Handle:  updater.Handle,
	})

	location, _ := time.LoadLocation(a.cfg.Scheduler.Timezone) //nolint:errcheck // checked in config.Validate

	modules.AsynqScheduler{
		Redis:    redis,
		Location: location,
	}.Run(ctx, g, modules.AsynqPeriodicTask{
		Cron: a.cfg.Scheduler.UpdateCron,
		Task: worker.NewUpdateTask(),
		Opts: []asynq.Option{asynq.Queue(queueDefault)},
	})
}

// Update - одно обновление истории, как POST /api/update.
func (a *App) Update(ctx context.Context) (entity.UpdateResult, error) {
	result, err := a.history.Update(ctx)
	if err != nil {
		return entity.UpdateResult{}, fmt.Errorf("history.Update: %w", err)
	}

	return result, nil
}

type PredictOptions struct {
	Mode   entity.PredictionMode
	Window value.Window
	Count  int
	Report bool
	Notify bool
}

type PredictResult struct {
	Prediction entity.Prediction
	Files      []string
}

// Predict строит предсказание и по флагам пишет отчёты в <base>/report
// и отправляет его в Telegram.
func (a *App) Predict(ctx context.Context, opts PredictOptions) (PredictResult, error) {
	prediction, err := a.predictor.Predict(ctx, opts.Mode, opts.Window, opts.Count)
	if err != nil {
		return PredictResult{}, fmt.Errorf("predictor.Predict: %w", err)
	}

	result := PredictResult{Prediction: prediction}

	if opts.Report {
		csvPath, err := a.reports.WriteCSV(ctx, prediction.Sets)
		if err != nil {
			return PredictResult{}, fmt.Errorf("reports.WriteCSV: %w", err)
		}

		htmlPath, err := a.reports.WriteHTML(ctx, prediction)
		if err != nil {
			return PredictResult{}, fmt.Errorf("reports.WriteHTML: %w", err)
		}

		result.Files = append(result.Files, csvPath, htmlPath)
	}

	if opts.Notify && a.bot != nil {
		if err := a.bot.NotifyPrediction(ctx, prediction); err != nil {
			logger(ctx).Warn("bot.NotifyPrediction", logx.Error(err))
		}
	}

	return result, nil
}

// dirWritable - директория истории есть (или может быть создана) и доступна на запись.
func dirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec,mnd
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	f, err := os.CreateTemp(dir, ".ready-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	name := f.Name()
	_ = f.Close()

	return os.Remove(name)
}
