//go:build gcloud

package outcomerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

type bigQueryRecord struct {
	RunID          string    `bigquery:"run_id"`
	RecordedAt     time.Time `bigquery:"recorded_at"`
	Recipient      string    `bigquery:"recipient"`
	AppointmentKey string    `bigquery:"appointment_key"`
	Tier           string    `bigquery:"tier"`
	Operation      string    `bigquery:"operation"`
	Outcome        string    `bigquery:"outcome"`
	Reason         string    `bigquery:"reason"`
	ScheduledAt    time.Time `bigquery:"scheduled_at"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReminderOutcomeRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reminder outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, reminder outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, reminder outcome recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "reminder outcome recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordOutcomes(ctx context.Context, records []domain.ReminderOutcomeRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RunID:          record.RunID,
			RecordedAt:     record.RecordedAt,
			Recipient:      record.Recipient,
			AppointmentKey: record.AppointmentKey,
			Tier:           record.Tier,
			Operation:      record.Operation,
			Outcome:        record.Outcome,
			Reason:         record.Reason,
			ScheduledAt:    record.ScheduledAt,
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert reminder outcomes to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
