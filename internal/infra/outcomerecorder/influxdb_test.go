//go:build !gcloud

package outcomerecorder

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

func TestNewRecorderFallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing credentials", cfg: &Config{InfluxDBURL: "http://localhost:8086"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := rec.(*noopRecorder); !ok {
				t.Errorf("expected noop recorder, got %T", rec)
			}
		})
	}
}

func TestOutcomePoint(t *testing.T) {
	scheduled := time.Date(2025, 9, 7, 21, 30, 0, 0, time.UTC)
	recorded := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	point := outcomePoint(domain.ReminderOutcomeRecord{
		RecordedAt:     recorded,
		Recipient:      "ZZZ0016",
		AppointmentKey: "2025-09-08|09:30|Smile Dental",
		Tier:           "24h",
		Operation:      "enable",
		Outcome:        "scheduled",
		ScheduledAt:    scheduled,
	})

	if point.Name() != influxMeasurement {
		t.Errorf("measurement = %q, want %q", point.Name(), influxMeasurement)
	}
	if !point.Time().Equal(recorded) {
		t.Errorf("time = %v, want %v", point.Time(), recorded)
	}

	tags := map[string]string{}
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	wantTags := map[string]string{"run_id": "default", "operation": "enable", "outcome": "scheduled", "tier": "24h"}
	for k, v := range wantTags {
		if tags[k] != v {
			t.Errorf("tag %s = %q, want %q", k, tags[k], v)
		}
	}

	fields := map[string]any{}
	for _, field := range point.FieldList() {
		fields[field.Key] = field.Value
	}
	if fields["scheduled_unix"] != scheduled.Unix() {
		t.Errorf("scheduled_unix = %v, want %d", fields["scheduled_unix"], scheduled.Unix())
	}
}
