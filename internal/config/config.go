package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	TaskQueue TaskQueueConfig
	Redis     *RedisConfig
	Reminder  *ReminderConfig
	Access    *AccessConfig
	Database  *DatabaseConfig
	Push      *PushConfig
}

// TaskQueueConfig selects where triggers are scheduled: an asynq queue on
// Redis locally, Cloud Tasks under the gcloud build.
type TaskQueueConfig struct {
	QueueName string

	GCloudProjectID           string
	GCloudLocationID          string
	GCloudQueueID             string
	GCloudTargetURL           string
	GCloudServiceAccountEmail string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "reminders"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	accessConfig, err := LoadAccessConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		TaskQueue: TaskQueueConfig{
			QueueName: queueName,

			GCloudProjectID:           os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID:          os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:             os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:           os.Getenv("GCLOUD_TARGET_URL"),
			GCloudServiceAccountEmail: os.Getenv("GCLOUD_SERVICE_ACCOUNT_EMAIL"),

			MaxRetries: maxRetries,
		},
		Redis:    redisConfig,
		Reminder: LoadReminderConfig(),
		Access:   accessConfig,
		Database: LoadDatabaseConfig(),
		Push:     LoadPushConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
