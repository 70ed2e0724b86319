package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

type Config struct {
	App       App
	Server    Server
	History   History
	Fetcher   Fetcher
	Predictor Predictor
	Postgres  Postgres
	Scheduler Scheduler
	Bot       Bot
}

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"threestar"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// BaseDir - корень для файла истории и папки report.
	BaseDir string `env:"BASE_DIR" envDefault:"."`
}

type Server struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":5000" validate:"required"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":8082"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen       int           `env:"LOG_FIELD_MAX_LEN" envDefault:"2048" validate:"min=0"`
}

type History struct {
	Backend     string        `env:"HISTORY_BACKEND" envDefault:"csv" validate:"oneof=csv postgres"`
	CSVPath     string        `env:"HISTORY_CSV_PATH" envDefault:"data/3star_history.csv" validate:"required"`
	SourceLabel string        `env:"HISTORY_SOURCE_LABEL" envDefault:"taiwanlottery"`
	DedupKey    string        `env:"HISTORY_DEDUP_KEY" envDefault:"digits" validate:"oneof=digits issue"`
	CacheTTL    time.Duration `env:"HISTORY_CACHE_TTL" envDefault:"0s"`
}

type Fetcher struct {
	URLs               []string      `env:"FETCH_URLS" envSeparator:","`
	Timeout            time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	MaxRetries         int           `env:"FETCH_MAX_RETRIES" envDefault:"1" validate:"min=0,max=10"`
	Backoff            time.Duration `env:"FETCH_BACKOFF" envDefault:"500ms"`
	MaxRows            int           `env:"FETCH_MAX_ROWS" envDefault:"8" validate:"min=1"`
	UserAgent          string        `env:"FETCH_USER_AGENT" envDefault:"Mozilla/5.0"`
	InsecureSkipVerify bool          `env:"FETCH_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

type Predictor struct {
	// Seed = 0 - случайный сид при каждом запуске.
	Seed uint64 `env:"PREDICT_SEED" envDefault:"0"`
}

type Scheduler struct {
	// Без REDIS_ADDRESS воркер и планировщик не запускаются.
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD" json:"-"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	UpdateCron    string `env:"UPDATE_CRON" envDefault:"0 22 * * 1-6"`
	Timezone      string `env:"SCHEDULER_TIMEZONE" envDefault:"Asia/Taipei"`
	Concurrency   int    `env:"SCHEDULER_CONCURRENCY" envDefault:"1" validate:"min=1"`
}

func (s Scheduler) Enabled() bool {
	return s.RedisAddress != ""
}

type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
	// Commands включает long polling и команды /predict, /pickall, /history, /update.
	Commands bool `env:"BOT_COMMANDS" envDefault:"false"`
	// AdminID - кому разрешён /update; 0 означает BOT_CHAT_ID.
	AdminID int64 `env:"BOT_ADMIN_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func (b Bot) CommandsEnabled() bool {
	return b.Token != "" && b.Commands
}

func (b Bot) Admin() int64 {
	if b.AdminID != 0 {
		return b.AdminID
	}
	return b.ChatID
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	if c.History.Backend == BackendPostgres && c.Postgres.DSN == "" {
		return errors.New("PG_DSN is required for HISTORY_BACKEND=postgres")
	}

	if c.Scheduler.Enabled() {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return fmt.Errorf("SCHEDULER_TIMEZONE: %w", err)
		}
	}

	return nil
}
