package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=outcome_recorder.go -destination=outcome_recorder_mock.go -package=domain

type ReminderOutcomeRecord struct {
	RunID          string
	RecordedAt     time.Time
	Recipient      string
	AppointmentKey string
	Tier           string
	Operation      string
	Outcome        string
	Reason         string
	ScheduledAt    time.Time
}

type ReminderOutcomeRecorder interface {
	RecordOutcomes(ctx context.Context, records []ReminderOutcomeRecord) error
	Flush(ctx context.Context) error
	Close() error
}
