package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Backfill
		GoogleBooks
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Backfill struct {
		Enabled  bool
		Schedule string // Cron format: "30 5 * * *" = daily at 05:30
	}

	GoogleBooks struct {
		APIKey   string // Optional; anonymous requests use a smaller quota
		Language string // langRestrict value, e.g. "ja"
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8184)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Metadata backfill defaults
	v.SetDefault("backfill_enabled", true)
	v.SetDefault("backfill_schedule", "30 5 * * *") // Daily at 05:30
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("search_lang", "ja")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Backfill: Backfill{
			Enabled:  v.GetBool("BACKFILL_ENABLED"),
			Schedule: v.GetString("BACKFILL_SCHEDULE"),
		},
		GoogleBooks: GoogleBooks{
			APIKey:   v.GetString("GOOGLE_BOOKS_API_KEY"),
			Language: v.GetString("SEARCH_LANG"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
