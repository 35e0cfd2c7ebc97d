package config

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "TASK_QUEUE_NAME", "TASK_QUEUE_MAX_RETRIES",
		"REDIS_ADDR", "REDIS_DB", "ACCESS_POLL_INTERVAL", "ACCESS_CHECK_TIMEOUT",
		"ACCESS_PRIVILEGED_SUBJECTS", "ACCOUNT_SERVICE_URL", "DATABASE_URL",
		"PUSH_PROVIDER", "REMINDER_WORKER_ENABLED", "REMINDER_WORKER_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.TaskQueue.QueueName != "reminders" || cfg.TaskQueue.MaxRetries != 3 {
		t.Errorf("TaskQueue = %+v", cfg.TaskQueue)
	}
	if cfg.Redis.Addr != defaultRedisAddr {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Access.PollInterval != 10*time.Second || cfg.Access.CheckTimeout != 5*time.Second {
		t.Errorf("Access = %+v", cfg.Access)
	}
	if cfg.Access.Enabled() {
		t.Error("Access.Enabled() = true without ACCOUNT_SERVICE_URL")
	}
	if cfg.Push.Provider != PushProviderLog {
		t.Errorf("Push.Provider = %q, want log", cfg.Push.Provider)
	}
	if !cfg.Reminder.WorkerEnabled || cfg.Reminder.WorkerConcurrency != 10 {
		t.Errorf("Reminder = %+v", cfg.Reminder)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TASK_QUEUE_NAME", "patient-reminders")
	t.Setenv("TASK_QUEUE_MAX_RETRIES", "7")
	t.Setenv("ACCESS_POLL_INTERVAL", "30s")
	t.Setenv("ACCESS_PRIVILEGED_SUBJECTS", " admin-1, ,clinic-owner ")
	t.Setenv("ACCOUNT_SERVICE_URL", "http://accounts:8080")
	t.Setenv("PUSH_PROVIDER", "FCM")
	t.Setenv("REMINDER_WORKER_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Port/LogLevel = %q/%v", cfg.Port, cfg.LogLevel)
	}
	if cfg.TaskQueue.QueueName != "patient-reminders" || cfg.TaskQueue.MaxRetries != 7 {
		t.Errorf("TaskQueue = %+v", cfg.TaskQueue)
	}
	if cfg.Access.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v", cfg.Access.PollInterval)
	}
	if want := []string{"admin-1", "clinic-owner"}; !slices.Equal(cfg.Access.PrivilegedSubjects, want) {
		t.Errorf("PrivilegedSubjects = %v, want %v", cfg.Access.PrivilegedSubjects, want)
	}
	if !cfg.Access.Enabled() {
		t.Error("Access.Enabled() = false")
	}
	if cfg.Push.Provider != PushProviderFCM {
		t.Errorf("Push.Provider = %q, want fcm", cfg.Push.Provider)
	}
	if cfg.Reminder.WorkerEnabled {
		t.Error("Reminder.WorkerEnabled = true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "invalid redis db",
			env:     map[string]string{"REDIS_DB": "zero"},
			wantErr: ErrInvalidRedisDB,
		},
		{
			name:    "invalid poll interval",
			env:     map[string]string{"ACCESS_POLL_INTERVAL": "often"},
			wantErr: ErrInvalidPollInterval,
		},
		{
			name:    "non-positive poll interval",
			env:     map[string]string{"ACCESS_POLL_INTERVAL": "0s"},
			wantErr: ErrInvalidPollInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForRun(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Redis:    &RedisConfig{Addr: "localhost:6379"},
			Database: &DatabaseConfig{URL: "postgres://localhost/dental"},
			Reminder: &ReminderConfig{WorkerEnabled: true, WorkerConcurrency: 4},
			Push:     &PushConfig{Provider: PushProviderLog},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing database",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: []error{ErrDatabaseURLMissing},
		},
		{
			name: "collects every problem",
			mutate: func(c *Config) {
				c.Redis.Addr = ""
				c.Push.Provider = "sms"
				c.Reminder.WorkerConcurrency = 0
			},
			wantErr: []error{ErrRedisAddrMissing, ErrUnknownPushProvider, ErrInvalidWorkerConcurrency},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateForRun(cfg)

			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("ValidateForRun() error = %v", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("ValidateForRun() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestRedisConfig_TLSConfig(t *testing.T) {
	t.Setenv("REDIS_TLS", "true")
	cfg, err := LoadRedisConfig()
	if err != nil {
		t.Fatalf("LoadRedisConfig() error = %v", err)
	}
	if got := cfg.TLSConfig(); got == nil || got.MinVersion != tls.VersionTLS12 {
		t.Errorf("TLSConfig() = %+v, want TLS 1.2 minimum", got)
	}

	t.Setenv("REDIS_TLS", "")
	cfg, err = LoadRedisConfig()
	if err != nil {
		t.Fatalf("LoadRedisConfig() error = %v", err)
	}
	if got := cfg.TLSConfig(); got != nil {
		t.Errorf("TLSConfig() = %+v, want nil without REDIS_TLS", got)
	}
}
