package config

import "errors"

var (
	ErrRedisAddrMissing         = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB           = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidPollInterval      = errors.New("ACCESS_POLL_INTERVAL must be a positive duration")
	ErrDatabaseURLMissing       = errors.New("DATABASE_URL is required")
	ErrUnknownPushProvider      = errors.New("PUSH_PROVIDER must be one of: log, fcm")
	ErrInvalidWorkerConcurrency = errors.New("REMINDER_WORKER_CONCURRENCY must be a positive integer")
)
