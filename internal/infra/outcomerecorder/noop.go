package outcomerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ReminderOutcomeRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordOutcomes(_ context.Context, _ []domain.ReminderOutcomeRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
