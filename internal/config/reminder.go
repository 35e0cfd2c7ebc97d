package config

import (
	"os"
	"strconv"
)

const (
	reminderWorkerEnabledEnv     = "REMINDER_WORKER_ENABLED"
	reminderWorkerConcurrencyEnv = "REMINDER_WORKER_CONCURRENCY"

	defaultReminderWorkerConcurrency = 10
)

// ReminderConfig controls the in-process delivery worker. It only applies to
// the local build; Cloud Tasks calls the fire endpoint instead.
type ReminderConfig struct {
	WorkerEnabled     bool
	WorkerConcurrency int
}

func LoadReminderConfig() *ReminderConfig {
	concurrency := defaultReminderWorkerConcurrency
	if v := os.Getenv(reminderWorkerConcurrencyEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			concurrency = parsed
		}
	}

	return &ReminderConfig{
		WorkerEnabled:     os.Getenv(reminderWorkerEnabledEnv) != "false",
		WorkerConcurrency: concurrency,
	}
}

func (c *ReminderConfig) Validate() error {
	if c.WorkerEnabled && c.WorkerConcurrency <= 0 {
		return ErrInvalidWorkerConcurrency
	}
	return nil
}
