package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"threestar/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(":5000", cfg.Server.ListenAddress)
	rq.Equal(slog.LevelInfo, cfg.App.LogLevel)
	rq.Equal(config.BackendCSV, cfg.History.Backend)
	rq.Equal("data/3star_history.csv", cfg.History.CSVPath)
	rq.Equal("digits", cfg.History.DedupKey)
	rq.Equal(20*time.Second, cfg.Fetcher.Timeout)
	rq.Equal(1, cfg.Fetcher.MaxRetries)
	rq.Equal(500*time.Millisecond, cfg.Fetcher.Backoff)
	rq.Equal(8, cfg.Fetcher.MaxRows)
	rq.False(cfg.Fetcher.InsecureSkipVerify)
	rq.False(cfg.Scheduler.Enabled())
	rq.False(cfg.Bot.Enabled())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(rq *require.Assertions, cfg config.Config)
		wantErr string
	}{
		{
			name: "Overrides",
			env: map[string]string{
				"LOG_LEVEL":         "debug",
				"FETCH_URLS":        "https://a.example/3d,https://b.example/3d",
				"HISTORY_DEDUP_KEY": "issue",
				"PREDICT_SEED":      "42",
				"REDIS_ADDRESS":     "localhost:6379",
				"BOT_TOKEN":         "123:abc",
				"BOT_CHAT_ID":       "-100500",
			},
			check: func(rq *require.Assertions, cfg config.Config) {
				rq.Equal(slog.LevelDebug, cfg.App.LogLevel)
				rq.Equal([]string{"https://a.example/3d", "https://b.example/3d"}, cfg.Fetcher.URLs)
				rq.Equal("issue", cfg.History.DedupKey)
				rq.Equal(uint64(42), cfg.Predictor.Seed)
				rq.True(cfg.Scheduler.Enabled())
				rq.True(cfg.Bot.Enabled())
				rq.False(cfg.Bot.CommandsEnabled())
				rq.Equal(int64(-100500), cfg.Bot.Admin())
			},
		},
		{
			name: "Bot commands",
			env: map[string]string{
				"BOT_TOKEN":    "123:abc",
				"BOT_COMMANDS": "true",
				"BOT_ADMIN_ID": "777",
			},
			check: func(rq *require.Assertions, cfg config.Config) {
				rq.False(cfg.Bot.Enabled())
				rq.True(cfg.Bot.CommandsEnabled())
				rq.Equal(int64(777), cfg.Bot.Admin())
			},
		},
		{
			name:    "Unknown backend",
			env:     map[string]string{"HISTORY_BACKEND": "sqlite"},
			wantErr: "Backend",
		},
		{
			name:    "Postgres without DSN",
			env:     map[string]string{"HISTORY_BACKEND": "postgres"},
			wantErr: "PG_DSN",
		},
		{
			name:    "Unknown dedup key",
			env:     map[string]string{"HISTORY_DEDUP_KEY": "date"},
			wantErr: "DedupKey",
		},
		{
			name:    "Bad timezone",
			env:     map[string]string{"REDIS_ADDRESS": "localhost:6379", "SCHEDULER_TIMEZONE": "Mars/Olympus"},
			wantErr: "SCHEDULER_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			t.Chdir(t.TempDir())

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantErr != "" {
				rq.ErrorContains(err, tt.wantErr)
				return
			}

			rq.NoError(err)
			tt.check(rq, cfg)
		})
	}
}
