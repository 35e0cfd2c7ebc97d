package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/sink"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/urgency"
)

const testRecipient = "ZZZ0016"

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %s: %v", name, err)
	}
	return loc
}

func testAppointment(t *testing.T) *domain.Appointment {
	t.Helper()
	loc := mustLoad(t, "Pacific/Auckland")
	start := time.Date(2025, 9, 8, 9, 30, 0, 0, loc)
	return &domain.Appointment{
		ID:          "appt-1",
		NHI:         testRecipient,
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Timezone:    "Pacific/Auckland",
		Purpose:     domain.PurposeCheckUp,
		ClinicName:  "Smile Dental",
		PatientInfo: "Jane Doe",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(s domain.NotificationSink, now time.Time) *Service {
	return NewService(s, nil, nil, nil, nil, WithClock(fixedClock(now)))
}

func TestToggleTier_EnableAndDisable(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	loc := mustLoad(t, "Pacific/Auckland")
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, loc)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, now)
	settings := domain.DefaultSettings()

	for _, tier := range []domain.Tier{domain.Tier24h, domain.Tier1h} {
		result, err := svc.ToggleTier(ctx, appt, tier, true, settings)
		if err != nil {
			t.Fatalf("ToggleTier(%s, true) error = %v", tier, err)
		}
		if result.Outcome != OutcomeScheduled {
			t.Errorf("ToggleTier(%s, true) outcome = %s, want %s", tier, result.Outcome, OutcomeScheduled)
		}
	}

	scheduled, _ := memSink.ListScheduled(ctx)
	if len(scheduled) != 2 {
		t.Fatalf("expected 2 live triggers, got %d", len(scheduled))
	}
	want24h := time.Date(2025, 9, 7, 9, 30, 0, 0, loc)
	want1h := time.Date(2025, 9, 8, 8, 30, 0, 0, loc)
	if !scheduled[0].ScheduledAt.Equal(want24h) {
		t.Errorf("24h trigger at %v, want %v", scheduled[0].ScheduledAt, want24h)
	}
	if !scheduled[1].ScheduledAt.Equal(want1h) {
		t.Errorf("1h trigger at %v, want %v", scheduled[1].ScheduledAt, want1h)
	}
	if scheduled[0].Payload.AppointmentKey.String() != "2025-09-08|09:30|Smile Dental" {
		t.Errorf("unexpected appointment key %q", scheduled[0].Payload.AppointmentKey)
	}

	result, err := svc.ToggleTier(ctx, appt, domain.Tier1h, false, settings)
	if err != nil {
		t.Fatalf("ToggleTier(1h, false) error = %v", err)
	}
	if result.Outcome != OutcomeCancelled {
		t.Errorf("ToggleTier(1h, false) outcome = %s, want %s", result.Outcome, OutcomeCancelled)
	}

	groups, err := svc.ListGrouped(ctx, testRecipient, now)
	if err != nil {
		t.Fatalf("ListGrouped() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("ListGrouped() returned %d groups, want 1", len(groups))
	}
	group := groups[0]
	if group.Tiers[domain.Tier24h] == nil {
		t.Error("24h tier should still be scheduled")
	} else if !group.Tiers[domain.Tier24h].ScheduledAt.Equal(want24h) {
		t.Errorf("24h tier at %v, want %v", group.Tiers[domain.Tier24h].ScheduledAt, want24h)
	}
	for _, tier := range []domain.Tier{domain.Tier1h, domain.Tier15m} {
		view, ok := group.Tiers[tier]
		if !ok {
			t.Errorf("tier %s missing from map", tier)
		}
		if view != nil {
			t.Errorf("tier %s = %+v, want nil", tier, view)
		}
	}
	if group.PatientInfo != "Jane Doe" {
		t.Errorf("PatientInfo = %q, want %q", group.PatientInfo, "Jane Doe")
	}
}

func TestToggleTier_Idempotent(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, now)
	settings := domain.DefaultSettings()

	first, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, settings)
	if err != nil {
		t.Fatalf("first enable error = %v", err)
	}
	second, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, settings)
	if err != nil {
		t.Fatalf("second enable error = %v", err)
	}

	if second.Outcome != OutcomeAlreadyScheduled {
		t.Errorf("second enable outcome = %s, want %s", second.Outcome, OutcomeAlreadyScheduled)
	}
	if second.TriggerID != first.TriggerID {
		t.Errorf("second enable trigger = %s, want %s", second.TriggerID, first.TriggerID)
	}

	schedules, cancels := memSink.Calls()
	if schedules != 1 || cancels != 0 {
		t.Errorf("sink calls = (%d schedules, %d cancels), want (1, 0)", schedules, cancels)
	}
}

func TestToggleTier_DisableWithoutTriggerMakesNoCancel(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	result, err := svc.ToggleTier(ctx, appt, domain.Tier15m, false, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("ToggleTier() error = %v", err)
	}
	if result.Outcome != OutcomeAlreadyCancelled {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeAlreadyCancelled)
	}
	if _, cancels := memSink.Calls(); cancels != 0 {
		t.Errorf("cancel calls = %d, want 0", cancels)
	}
}

func TestToggleTier_SkipsWithoutSinkCalls(t *testing.T) {
	ctx := context.Background()
	loc := mustLoad(t, "Pacific/Auckland")

	gateOff := domain.DefaultSettings()
	gateOff.AppointmentReminders = false

	tests := []struct {
		name       string
		now        time.Time
		tier       domain.Tier
		settings   domain.Settings
		wantReason string
	}{
		{
			name:       "fire time in the past",
			now:        time.Date(2025, 9, 8, 9, 0, 0, 0, loc),
			tier:       domain.Tier1h,
			settings:   domain.DefaultSettings(),
			wantReason: SkipReasonPast,
		},
		{
			name:       "fire time equal to now",
			now:        time.Date(2025, 9, 8, 9, 15, 0, 0, loc),
			tier:       domain.Tier15m,
			settings:   domain.DefaultSettings(),
			wantReason: SkipReasonPast,
		},
		{
			name:       "global gate off",
			now:        time.Date(2025, 9, 1, 0, 0, 0, 0, loc),
			tier:       domain.Tier24h,
			settings:   gateOff,
			wantReason: SkipReasonDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSink := domain.NewMockNotificationSink(ctrl)
			// No EXPECT calls: any sink interaction fails the test.
			svc := newTestService(mockSink, tt.now)

			result, err := svc.ToggleTier(ctx, testAppointment(t), tt.tier, true, tt.settings)
			if err != nil {
				t.Fatalf("ToggleTier() error = %v", err)
			}
			if !result.Skipped() {
				t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeSkipped)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestToggleTier_PastAppointmentScenario(t *testing.T) {
	ctx := context.Background()
	loc := mustLoad(t, "Pacific/Auckland")
	start := time.Date(2025, 9, 8, 9, 30, 0, 0, loc)
	appt := &domain.Appointment{
		NHI:        testRecipient,
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Timezone:   "Pacific/Auckland",
		ClinicName: "Smile Dental",
	}
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 8, 9, 0, 0, 0, loc))

	result, err := svc.ToggleTier(ctx, appt, domain.Tier1h, true, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("ToggleTier() error = %v", err)
	}
	if result.Outcome != OutcomeSkipped || result.Reason != SkipReasonPast {
		t.Errorf("result = %+v, want skipped in the past", result)
	}
	if memSink.ListCalls() != 0 {
		t.Errorf("list calls = %d, want 0", memSink.ListCalls())
	}
	if schedules, cancels := memSink.Calls(); schedules != 0 || cancels != 0 {
		t.Errorf("sink calls = (%d, %d), want (0, 0)", schedules, cancels)
	}
}

func TestToggleTier_ReschedulesCancelBeforeCreate(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	key, _ := appt.Key()
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	stale := domain.ScheduledTrigger{
		ID:          "stale",
		ScheduledAt: time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC),
		Payload: domain.TriggerPayload{
			Kind:           domain.PayloadAppointmentReminder,
			Recipient:      testRecipient,
			AppointmentKey: key,
			Tier:           domain.Tier24h,
		},
	}

	ctrl := gomock.NewController(t)
	mockSink := domain.NewMockNotificationSink(ctrl)
	gomock.InOrder(
		mockSink.EXPECT().ListScheduled(gomock.Any()).Return([]domain.ScheduledTrigger{stale}, nil),
		mockSink.EXPECT().Cancel(gomock.Any(), "stale").Return(nil),
		mockSink.EXPECT().ScheduleAt(gomock.Any(), domain.Tier24h.FireTime(appt.StartAt), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ time.Time, payload domain.TriggerPayload) (string, error) {
				if payload.Tier != domain.Tier24h || payload.AppointmentKey != key {
					t.Errorf("unexpected payload %+v", payload)
				}
				return "fresh", nil
			}),
	)

	svc := newTestService(mockSink, now)
	result, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("ToggleTier() error = %v", err)
	}
	if result.Outcome != OutcomeRescheduled || result.TriggerID != "fresh" {
		t.Errorf("result = %+v, want rescheduled to fresh", result)
	}
}

func TestToggleTier_DuplicatesAreCollapsed(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	key, _ := appt.Key()
	fireAt := domain.Tier1h.FireTime(appt.StartAt)
	memSink := sink.NewMemorySink()
	for _, id := range []string{"b", "a"} {
		memSink.Put(domain.ScheduledTrigger{
			ID:          id,
			ScheduledAt: fireAt,
			Payload: domain.TriggerPayload{
				Kind:           domain.PayloadAppointmentReminder,
				Recipient:      testRecipient,
				AppointmentKey: key,
				Tier:           domain.Tier1h,
			},
		})
	}
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	result, err := svc.ToggleTier(ctx, appt, domain.Tier1h, true, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("ToggleTier() error = %v", err)
	}
	if result.Outcome != OutcomeAlreadyScheduled || result.TriggerID != "a" {
		t.Errorf("result = %+v, want already_scheduled keeping a", result)
	}

	live, _ := memSink.ListScheduled(ctx)
	if len(live) != 1 || live[0].ID != "a" {
		t.Errorf("live triggers = %+v, want only a", live)
	}
}

func TestToggleTier_SinkFailure(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	sinkErr := errors.New("queue unavailable")

	tests := []struct {
		name  string
		setup func(m *domain.MockNotificationSink)
	}{
		{
			name: "list fails",
			setup: func(m *domain.MockNotificationSink) {
				m.EXPECT().ListScheduled(gomock.Any()).Return(nil, sinkErr)
			},
		},
		{
			name: "schedule fails",
			setup: func(m *domain.MockNotificationSink) {
				m.EXPECT().ListScheduled(gomock.Any()).Return(nil, nil)
				m.EXPECT().ScheduleAt(gomock.Any(), gomock.Any(), gomock.Any()).Return("", sinkErr).Times(1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSink := domain.NewMockNotificationSink(ctrl)
			tt.setup(mockSink)
			svc := newTestService(mockSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

			_, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, domain.DefaultSettings())
			if !errors.Is(err, domain.ErrSchedulingFailed) {
				t.Errorf("error = %v, want ErrSchedulingFailed", err)
			}
			if !errors.Is(err, sinkErr) {
				t.Errorf("error = %v, want wrapped sink error", err)
			}
		})
	}
}

func TestToggleTier_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(sink.NewMemorySink(), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	if _, err := svc.ToggleTier(ctx, testAppointment(t), domain.Tier("2h"), true, domain.DefaultSettings()); !errors.Is(err, domain.ErrUnknownTier) {
		t.Errorf("unknown tier error = %v, want ErrUnknownTier", err)
	}

	inverted := testAppointment(t)
	inverted.EndAt = inverted.StartAt.Add(-time.Minute)
	if _, err := svc.ToggleTier(ctx, inverted, domain.Tier24h, true, domain.DefaultSettings()); !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
	}

	badZone := testAppointment(t)
	badZone.Timezone = "Mars/Olympus"
	if _, err := svc.ToggleTier(ctx, badZone, domain.Tier24h, true, domain.DefaultSettings()); !errors.Is(err, domain.ErrInvalidTimezone) {
		t.Errorf("bad timezone error = %v, want ErrInvalidTimezone", err)
	}
}

func TestToggleTier_ConcurrentEnableLeavesOneTrigger(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, domain.DefaultSettings()); err != nil {
				t.Errorf("ToggleTier() error = %v", err)
			}
		}()
	}
	wg.Wait()

	live, _ := memSink.ListScheduled(ctx)
	if len(live) != 1 {
		t.Errorf("live triggers = %d, want 1", len(live))
	}
	if svc.locks.size() != 0 {
		t.Errorf("lock table size = %d, want 0", svc.locks.size())
	}
}

func TestToggleTier_ConcurrentEnableDisable(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(enable bool) {
			defer wg.Done()
			if _, err := svc.ToggleTier(ctx, appt, domain.Tier24h, enable, domain.DefaultSettings()); err != nil {
				t.Errorf("ToggleTier(enable=%v) error = %v", enable, err)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	live, _ := memSink.ListScheduled(ctx)
	if len(live) > 1 {
		t.Fatalf("live triggers after interleaved toggles = %d, want at most 1", len(live))
	}

	if _, err := svc.ToggleTier(ctx, appt, domain.Tier24h, true, domain.DefaultSettings()); err != nil {
		t.Fatalf("ToggleTier() error = %v", err)
	}
	live, _ = memSink.ListScheduled(ctx)
	if len(live) != 1 {
		t.Errorf("live triggers after final enable = %d, want 1", len(live))
	}
	if svc.locks.size() != 0 {
		t.Errorf("lock table size = %d, want 0", svc.locks.size())
	}
}

func TestScheduleAppointment_FollowsTierSettings(t *testing.T) {
	ctx := context.Background()
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	results, err := svc.ScheduleAppointment(ctx, testAppointment(t), domain.DefaultSettings())
	if err != nil {
		t.Fatalf("ScheduleAppointment() error = %v", err)
	}

	want := map[domain.Tier]Outcome{
		domain.Tier24h: OutcomeScheduled,
		domain.Tier1h:  OutcomeScheduled,
		domain.Tier15m: OutcomeAlreadyCancelled,
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for _, r := range results {
		if r.Outcome != want[r.Tier] {
			t.Errorf("tier %s outcome = %s, want %s", r.Tier, r.Outcome, want[r.Tier])
		}
	}
}

func TestToggleTierByID(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("redis down")

	tests := []struct {
		name        string
		enabled     bool
		settings    domain.Settings
		settingsErr error
		wantOutcome Outcome
		wantErr     error
	}{
		{
			name:        "stored settings used",
			enabled:     true,
			settings:    domain.DefaultSettings(),
			wantOutcome: OutcomeScheduled,
		},
		{
			name:        "missing settings fall back to defaults",
			enabled:     true,
			settingsErr: domain.ErrSettingsNotFound,
			wantOutcome: OutcomeScheduled,
		},
		{
			name:        "store unavailable skips enable",
			enabled:     true,
			settingsErr: storeErr,
			wantOutcome: OutcomeSkipped,
			wantErr:     domain.ErrStoreUnavailable,
		},
		{
			name:        "store unavailable still disables",
			enabled:     false,
			settingsErr: storeErr,
			wantOutcome: OutcomeAlreadyCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := domain.NewMockSettingsStore(ctrl)
			provider := domain.NewMockAppointmentProvider(ctrl)

			provider.EXPECT().GetAppointment(gomock.Any(), "appt-1").Return(testAppointment(t), nil)
			store.EXPECT().Get(gomock.Any(), testRecipient).Return(tt.settings, tt.settingsErr)

			svc := NewService(sink.NewMemorySink(), store, provider, nil, nil,
				WithClock(fixedClock(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))))

			result, err := svc.ToggleTierByID(ctx, "appt-1", domain.Tier24h, tt.enabled)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil || result.Outcome != tt.wantOutcome {
				t.Errorf("result = %+v, want outcome %s", result, tt.wantOutcome)
			}
		})
	}
}

func TestToggleTierByID_AppointmentNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := domain.NewMockAppointmentProvider(ctrl)
	provider.EXPECT().GetAppointment(gomock.Any(), "missing").Return(nil, domain.ErrAppointmentNotFound)

	svc := NewService(sink.NewMemorySink(), nil, provider, nil, nil)
	if _, err := svc.ToggleTierByID(context.Background(), "missing", domain.Tier1h, true); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Errorf("error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestScheduleDailyTip(t *testing.T) {
	ctx := context.Background()
	loc := mustLoad(t, "Pacific/Auckland")
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, loc)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, now)
	settings := domain.DefaultSettings()

	first, err := svc.ScheduleDailyTip(ctx, testRecipient, settings)
	if err != nil {
		t.Fatalf("ScheduleDailyTip() error = %v", err)
	}
	if first.Outcome != OutcomeScheduled {
		t.Errorf("outcome = %s, want %s", first.Outcome, OutcomeScheduled)
	}
	wantAt := time.Date(2025, 9, 2, 9, 0, 0, 0, loc)
	if !first.ScheduledAt.Equal(wantAt) {
		t.Errorf("scheduled at %v, want %v", first.ScheduledAt, wantAt)
	}

	again, err := svc.ScheduleDailyTip(ctx, testRecipient, settings)
	if err != nil {
		t.Fatalf("ScheduleDailyTip() error = %v", err)
	}
	if again.Outcome != OutcomeAlreadyScheduled || again.TriggerID != first.TriggerID {
		t.Errorf("second call = %+v, want already_scheduled %s", again, first.TriggerID)
	}

	settings.DailyTipTime = "20:15"
	moved, err := svc.ScheduleDailyTip(ctx, testRecipient, settings)
	if err != nil {
		t.Fatalf("ScheduleDailyTip() error = %v", err)
	}
	if moved.Outcome != OutcomeRescheduled {
		t.Errorf("outcome = %s, want %s", moved.Outcome, OutcomeRescheduled)
	}
	if want := time.Date(2025, 9, 1, 20, 15, 0, 0, loc); !moved.ScheduledAt.Equal(want) {
		t.Errorf("scheduled at %v, want %v", moved.ScheduledAt, want)
	}

	live, _ := memSink.ListScheduled(ctx)
	if len(live) != 1 {
		t.Fatalf("live tips = %d, want 1", len(live))
	}

	settings.DailyTips = false
	off, err := svc.ScheduleDailyTip(ctx, testRecipient, settings)
	if err != nil {
		t.Fatalf("ScheduleDailyTip() error = %v", err)
	}
	if off.Outcome != OutcomeCancelled {
		t.Errorf("outcome = %s, want %s", off.Outcome, OutcomeCancelled)
	}
	if live, _ := memSink.ListScheduled(ctx); len(live) != 0 {
		t.Errorf("live tips after disable = %d, want 0", len(live))
	}
}

func TestScheduleDailyTip_InvalidTime(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.DailyTipTime = "25:99"

	svc := newTestService(sink.NewMemorySink(), time.Now())
	if _, err := svc.ScheduleDailyTip(context.Background(), testRecipient, settings); !errors.Is(err, domain.ErrInvalidTipTime) {
		t.Errorf("error = %v, want ErrInvalidTipTime", err)
	}
}

func TestApplySettings(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	memSink := sink.NewMemorySink()
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	store := domain.NewMockSettingsStore(ctrl)

	updated := domain.DefaultSettings()
	updated.ReminderTime1h = false
	updated.DailyTips = false
	store.EXPECT().Set(gomock.Any(), testRecipient, updated).Return(nil)

	svc := NewService(memSink, store, nil, nil, nil, WithClock(fixedClock(now)))

	if _, err := svc.ScheduleAppointment(ctx, appt, domain.DefaultSettings()); err != nil {
		t.Fatalf("ScheduleAppointment() error = %v", err)
	}
	if _, err := svc.ScheduleDailyTip(ctx, testRecipient, domain.DefaultSettings()); err != nil {
		t.Fatalf("ScheduleDailyTip() error = %v", err)
	}

	results, err := svc.ApplySettings(ctx, testRecipient, updated)
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 1h cancel and tip cancel", results)
	}

	groups, _ := svc.ListGrouped(ctx, testRecipient, now)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].Tiers[domain.Tier24h] == nil || groups[0].Tiers[domain.Tier1h] != nil {
		t.Errorf("tiers = %+v, want only 24h", groups[0].Tiers)
	}

	live, _ := memSink.ListScheduled(ctx)
	for _, trigger := range live {
		if trigger.Payload.Kind == domain.PayloadDailyTip {
			t.Errorf("daily tip %s still scheduled", trigger.ID)
		}
	}
}

func TestApplySettings_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockSettingsStore(ctrl)
	store.EXPECT().Set(gomock.Any(), testRecipient, gomock.Any()).Return(errors.New("redis down"))

	svc := NewService(sink.NewMemorySink(), store, nil, nil, nil)
	if _, err := svc.ApplySettings(context.Background(), testRecipient, domain.DefaultSettings()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
}

func TestListGrouped_Urgency(t *testing.T) {
	ctx := context.Background()
	appt := testAppointment(t)
	memSink := sink.NewMemorySink()
	svc := newTestService(memSink, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))

	if _, err := svc.ScheduleAppointment(ctx, appt, domain.DefaultSettings()); err != nil {
		t.Fatalf("ScheduleAppointment() error = %v", err)
	}

	// 30 minutes before the 1h trigger, 23.5h before the 24h one.
	now := domain.Tier1h.FireTime(appt.StartAt).Add(-30 * time.Minute)
	groups, err := svc.ListGrouped(ctx, testRecipient, now)
	if err != nil {
		t.Fatalf("ListGrouped() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if got := groups[0].Tiers[domain.Tier1h].Urgency; got != urgency.Red {
		t.Errorf("1h urgency = %s, want %s", got, urgency.Red)
	}

	others, err := svc.ListGrouped(ctx, "someone-else", now)
	if err != nil {
		t.Fatalf("ListGrouped() error = %v", err)
	}
	if len(others) != 0 {
		t.Errorf("other recipient groups = %d, want 0", len(others))
	}
}
