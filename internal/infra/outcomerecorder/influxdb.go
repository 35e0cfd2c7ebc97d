//go:build !gcloud

package outcomerecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

const influxMeasurement = "reminder_outcome"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReminderOutcomeRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reminder outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, reminder outcome recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "reminder outcome recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
		bucket:   cfg.InfluxDBBucket,
	}, nil
}

func outcomePoint(record domain.ReminderOutcomeRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	fields := map[string]any{
		"recipient":       record.Recipient,
		"appointment_key": record.AppointmentKey,
		"reason":          record.Reason,
	}
	if !record.ScheduledAt.IsZero() {
		fields["scheduled_unix"] = record.ScheduledAt.Unix()
	}

	pointTime := record.RecordedAt
	if pointTime.IsZero() {
		pointTime = time.Now()
	}

	return influxdb2.NewPoint(
		influxMeasurement,
		map[string]string{
			"run_id":    runID,
			"operation": record.Operation,
			"outcome":   record.Outcome,
			"tier":      record.Tier,
		},
		fields,
		pointTime,
	)
}

// RecordOutcomes writes one point per record. Write failures are logged and
// do not fail the scheduling call that produced them.
func (r *influxDBRecorder) RecordOutcomes(ctx context.Context, records []domain.ReminderOutcomeRecord) error {
	for _, record := range records {
		if err := r.writeAPI.WritePoint(ctx, outcomePoint(record)); err != nil {
			slog.WarnContext(ctx, "failed to write reminder outcome to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("operation", record.Operation),
				slog.String("outcome", record.Outcome),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
