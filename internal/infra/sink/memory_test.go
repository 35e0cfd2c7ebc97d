package sink

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()
	base := time.Date(2025, 9, 7, 9, 30, 0, 0, time.UTC)

	late, err := s.ScheduleAt(ctx, base.Add(time.Hour), domain.TriggerPayload{Kind: domain.PayloadDailyTip})
	if err != nil {
		t.Fatalf("ScheduleAt() error = %v", err)
	}
	early, err := s.ScheduleAt(ctx, base, domain.TriggerPayload{Kind: domain.PayloadDailyTip})
	if err != nil {
		t.Fatalf("ScheduleAt() error = %v", err)
	}

	listed, err := s.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("ListScheduled() error = %v", err)
	}
	if len(listed) != 2 || listed[0].ID != early || listed[1].ID != late {
		t.Fatalf("ListScheduled() = %+v, want %s then %s", listed, early, late)
	}

	if err := s.Cancel(ctx, early); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := s.Cancel(ctx, late); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := s.Cancel(ctx, "missing"); err != nil {
		t.Fatalf("Cancel() of unknown id error = %v", err)
	}

	listed, _ = s.ListScheduled(ctx)
	if len(listed) != 0 {
		t.Errorf("ListScheduled() after cancel = %+v, want empty", listed)
	}

	schedules, cancels := s.Calls()
	if schedules != 2 || cancels != 3 {
		t.Errorf("Calls() = (%d, %d), want (2, 3)", schedules, cancels)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2025, 9, 8, 8, 30, 0, 0, time.FixedZone("NZST", 12*3600))
	payload := domain.TriggerPayload{
		Kind:           domain.PayloadAppointmentReminder,
		Title:          "Upcoming dental appointment",
		Recipient:      "ZZZ0016",
		AppointmentKey: domain.AppointmentKey{Date: "2025-09-08", Time: "09:30", ClinicName: "Smile Dental"},
		Tier:           domain.Tier1h,
	}

	b, err := EncodeEnvelope("trigger-1", at, payload)
	if err != nil {
		t.Fatalf("EncodeEnvelope() error = %v", err)
	}

	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}

	trigger := env.Trigger()
	if trigger.ID != "trigger-1" || !trigger.ScheduledAt.Equal(at) || trigger.Payload != payload {
		t.Errorf("Trigger() = %+v", trigger)
	}
}

func TestDecodeEnvelopeRejectsMissingID(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`{"scheduled_at":"2025-09-08T08:30:00Z"}`)); err == nil {
		t.Error("DecodeEnvelope() error = nil, want error")
	}
	if _, err := DecodeEnvelope([]byte(`not json`)); err == nil {
		t.Error("DecodeEnvelope() error = nil, want error")
	}
}
