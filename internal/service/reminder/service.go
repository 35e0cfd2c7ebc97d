package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/tracing"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/grouping"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/timewindow"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/urgency"
)

const (
	operationEnable   = "enable"
	operationDisable  = "disable"
	operationDailyTip = "daily_tip"
)

type Option func(*Service)

// WithClock replaces time.Now for deciding whether a trigger is in the past.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	sink            domain.NotificationSink
	settingsStore   domain.SettingsStore
	appointments    domain.AppointmentProvider
	recorder        domain.ReminderOutcomeRecorder
	reminderMetrics *metrics.ReminderMetrics
	locks           *keyLocks
	now             func() time.Time
}

func NewService(
	sink domain.NotificationSink,
	settingsStore domain.SettingsStore,
	appointments domain.AppointmentProvider,
	recorder domain.ReminderOutcomeRecorder,
	reminderMetrics *metrics.ReminderMetrics,
	opts ...Option,
) *Service {
	s := &Service{
		sink:            sink,
		settingsStore:   settingsStore,
		appointments:    appointments,
		recorder:        recorder,
		reminderMetrics: reminderMetrics,
		locks:           newKeyLocks(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToggleTier enables or disables one reminder tier for an appointment. Calls for
// the same (appointment key, tier) are serialized.
func (s *Service) ToggleTier(
	ctx context.Context,
	appt *domain.Appointment,
	tier domain.Tier,
	enabled bool,
	settings domain.Settings,
) (*Result, error) {
	if appt == nil {
		return nil, domain.ErrAppointmentNotFound
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tier)
	}

	checked := *appt
	if err := timewindow.Complete(&checked); err != nil {
		return nil, err
	}

	key, err := checked.Key()
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartToggleSpan(ctx, key.String(), tier.String(), enabled)
	defer span.End()

	unlock := s.locks.Lock(tierLockKey(key.String(), tier.String()))
	defer unlock()

	var result *Result
	operation := operationDisable
	if enabled {
		operation = operationEnable
		result, err = s.enableLocked(ctx, &checked, key, tier, settings)
	} else {
		result, err = s.disableLocked(ctx, key, tier)
	}

	if result != nil {
		tracing.RecordToggleResult(span, result.Outcome.String(), result.Reason, result.ScheduledAt, err)
		s.recordToggle(ctx, checked.NHI, operation, result)
	} else {
		tracing.RecordError(span, err)
	}

	if err != nil {
		slog.ErrorContext(ctx, "failed to toggle reminder tier",
			slog.String("appointment_key", key.String()),
			slog.String("tier", tier.String()),
			slog.Bool("enabled", enabled),
			slog.String("error", err.Error()),
		)
		return result, err
	}

	slog.InfoContext(ctx, "reminder tier toggled",
		slog.String("appointment_key", key.String()),
		slog.String("tier", tier.String()),
		slog.Bool("enabled", enabled),
		slog.String("outcome", result.Outcome.String()),
		slog.String("reason", result.Reason),
	)

	return result, nil
}

func (s *Service) enableLocked(
	ctx context.Context,
	appt *domain.Appointment,
	key domain.AppointmentKey,
	tier domain.Tier,
	settings domain.Settings,
) (*Result, error) {
	scheduledAt := tier.FireTime(appt.StartAt)
	result := &Result{
		AppointmentKey: key.String(),
		Tier:           tier,
		ScheduledAt:    scheduledAt,
	}

	if !settings.AppointmentReminders {
		result.Outcome = OutcomeSkipped
		result.Reason = SkipReasonDisabled
		return result, nil
	}

	if !scheduledAt.After(s.now()) {
		result.Outcome = OutcomeSkipped
		result.Reason = SkipReasonPast
		return result, nil
	}

	live, err := s.liveTriggers(ctx, key, tier)
	if err != nil {
		return nil, err
	}

	if len(live) > 0 && live[0].ScheduledAt.Equal(scheduledAt) {
		// Keep the existing trigger; anything else for this tier is a duplicate.
		if err := s.cancelAll(ctx, live[1:]); err != nil {
			return nil, err
		}
		result.Outcome = OutcomeAlreadyScheduled
		result.TriggerID = live[0].ID
		return result, nil
	}

	// Cancel before create so two live triggers never coexist for the tier.
	if err := s.cancelAll(ctx, live); err != nil {
		return nil, err
	}

	triggerID, err := s.scheduleAt(ctx, scheduledAt, appointmentPayload(appt, key, tier))
	if err != nil {
		return nil, err
	}

	result.TriggerID = triggerID
	result.Outcome = OutcomeScheduled
	if len(live) > 0 {
		result.Outcome = OutcomeRescheduled
		slog.InfoContext(ctx, "reminder rescheduled",
			slog.String("appointment_key", key.String()),
			slog.String("tier", tier.String()),
			slog.Time("previous_time", live[0].ScheduledAt),
			slog.Time("scheduled_time", scheduledAt),
		)
	}

	return result, nil
}

func (s *Service) disableLocked(ctx context.Context, key domain.AppointmentKey, tier domain.Tier) (*Result, error) {
	result := &Result{
		AppointmentKey: key.String(),
		Tier:           tier,
	}

	live, err := s.liveTriggers(ctx, key, tier)
	if err != nil {
		return nil, err
	}

	if len(live) == 0 {
		result.Outcome = OutcomeAlreadyCancelled
		return result, nil
	}

	if err := s.cancelAll(ctx, live); err != nil {
		return nil, err
	}

	result.Outcome = OutcomeCancelled
	result.TriggerID = live[0].ID
	result.ScheduledAt = live[0].ScheduledAt
	return result, nil
}

// ScheduleAppointment applies each tier's own setting to the appointment.
func (s *Service) ScheduleAppointment(ctx context.Context, appt *domain.Appointment, settings domain.Settings) ([]Result, error) {
	results := make([]Result, 0, len(domain.Tiers()))

	for _, tier := range domain.Tiers() {
		result, err := s.ToggleTier(ctx, appt, tier, settings.TierEnabled(tier), settings)
		if err != nil {
			return results, fmt.Errorf("failed to apply tier %s: %w", tier, err)
		}
		results = append(results, *result)
	}

	return results, nil
}

// ToggleTierByID loads the appointment and its owner's settings before toggling.
// When settings cannot be read, enabling fails safe as skipped and the store
// error is returned; disabling still proceeds.
func (s *Service) ToggleTierByID(ctx context.Context, appointmentID string, tier domain.Tier, enabled bool) (*Result, error) {
	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	settings, storeErr := s.settingsFor(ctx, appt.NHI)
	if storeErr != nil {
		if enabled {
			return &Result{
				Tier:    tier,
				Outcome: OutcomeSkipped,
				Reason:  SkipReasonStoreUnavailable,
			}, storeErr
		}
		slog.WarnContext(ctx, "settings unavailable, proceeding with cancellation",
			slog.String("appointment_id", appointmentID),
			slog.String("error", storeErr.Error()),
		)
	}

	return s.ToggleTier(ctx, appt, tier, enabled, settings)
}

// SyncAppointmentByID re-applies the owner's tier settings to one appointment.
func (s *Service) SyncAppointmentByID(ctx context.Context, appointmentID string) ([]Result, error) {
	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsFor(ctx, appt.NHI)
	if err != nil {
		return nil, err
	}

	return s.ScheduleAppointment(ctx, appt, settings)
}

// ScheduleDailyTip keeps at most one recurring tip trigger for the recipient,
// placed at the next occurrence of settings.DailyTipTime.
func (s *Service) ScheduleDailyTip(ctx context.Context, recipient string, settings domain.Settings) (*Result, error) {
	ctx, span := tracing.StartDailyTipSpan(ctx, recipient)
	defer span.End()

	unlock := s.locks.Lock(tipLockKey(recipient))
	defer unlock()

	result, err := s.scheduleDailyTipLocked(ctx, recipient, settings)
	if result != nil {
		tracing.RecordToggleResult(span, result.Outcome.String(), result.Reason, result.ScheduledAt, err)
		if s.reminderMetrics != nil {
			s.reminderMetrics.RecordDailyTip(ctx, result.Outcome.String())
		}
		s.record(ctx, recipient, "", "", operationDailyTip, result)
	} else {
		tracing.RecordError(span, err)
	}

	if err != nil {
		slog.ErrorContext(ctx, "failed to schedule daily tip",
			slog.String("recipient", recipient),
			slog.String("error", err.Error()),
		)
		return result, err
	}

	slog.InfoContext(ctx, "daily tip scheduling applied",
		slog.String("recipient", recipient),
		slog.String("outcome", result.Outcome.String()),
		slog.Time("scheduled_time", result.ScheduledAt),
	)

	return result, nil
}

func (s *Service) scheduleDailyTipLocked(ctx context.Context, recipient string, settings domain.Settings) (*Result, error) {
	now := s.now()

	var next time.Time
	if settings.DailyTips {
		var err error
		next, err = settings.NextDailyTip(now)
		if err != nil {
			return nil, err
		}
	}

	scheduled, err := s.listScheduled(ctx)
	if err != nil {
		return nil, err
	}

	existing := make([]domain.ScheduledTrigger, 0, 1)
	for _, t := range scheduled {
		p := t.Payload.Normalize()
		// A tip at or before now is already firing and re-arms itself.
		if p.Kind == domain.PayloadDailyTip && p.Recipient == recipient && t.ScheduledAt.After(now) {
			existing = append(existing, t)
		}
	}

	result := &Result{}

	if !settings.DailyTips {
		if len(existing) == 0 {
			result.Outcome = OutcomeAlreadyCancelled
			return result, nil
		}
		if err := s.cancelScheduled(ctx, existing); err != nil {
			return nil, err
		}
		result.Outcome = OutcomeCancelled
		result.TriggerID = existing[0].ID
		return result, nil
	}

	result.ScheduledAt = next

	if len(existing) == 1 && existing[0].ScheduledAt.Equal(next) {
		result.Outcome = OutcomeAlreadyScheduled
		result.TriggerID = existing[0].ID
		return result, nil
	}

	if err := s.cancelScheduled(ctx, existing); err != nil {
		return nil, err
	}

	triggerID, err := s.scheduleAt(ctx, next, dailyTipPayload(recipient, next))
	if err != nil {
		return nil, err
	}

	result.TriggerID = triggerID
	result.Outcome = OutcomeScheduled
	if len(existing) > 0 {
		result.Outcome = OutcomeRescheduled
	}
	return result, nil
}

// ApplySettings stores the whole settings document and reconciles live
// triggers: tiers switched off (or the global gate) are cancelled and the
// daily tip follows the new tip settings. Tiers switched on are applied per
// appointment via ScheduleAppointment.
func (s *Service) ApplySettings(ctx context.Context, recipient string, settings domain.Settings) ([]Result, error) {
	if _, err := settings.Location(); err != nil {
		return nil, err
	}
	if settings.DailyTips {
		if _, err := settings.NextDailyTip(s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.settingsStore.Set(ctx, recipient, settings); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	scheduled, err := s.listScheduled(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0)
	seen := make(map[string]struct{})
	for _, trigger := range grouping.Reminders(scheduled) {
		if trigger.Payload.Recipient != recipient {
			continue
		}
		if settings.AppointmentReminders && settings.TierEnabled(trigger.Tier) {
			continue
		}
		lockKey := tierLockKey(trigger.AppointmentKey.String(), trigger.Tier.String())
		if _, ok := seen[lockKey]; ok {
			continue
		}
		seen[lockKey] = struct{}{}

		result, err := s.cancelTier(ctx, trigger.AppointmentKey, trigger.Tier, recipient)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}

	tipResult, err := s.ScheduleDailyTip(ctx, recipient, settings)
	if err != nil {
		return results, err
	}
	results = append(results, *tipResult)

	return results, nil
}

func (s *Service) cancelTier(ctx context.Context, key domain.AppointmentKey, tier domain.Tier, recipient string) (*Result, error) {
	unlock := s.locks.Lock(tierLockKey(key.String(), tier.String()))
	defer unlock()

	result, err := s.disableLocked(ctx, key, tier)
	if err != nil {
		return nil, err
	}
	s.recordToggle(ctx, recipient, operationDisable, result)
	return result, nil
}

// ListGrouped returns the recipient's live reminders per appointment with the
// urgency of each trigger relative to now. An empty recipient lists everyone.
func (s *Service) ListGrouped(ctx context.Context, recipient string, now time.Time) ([]AppointmentReminders, error) {
	scheduled, err := s.listScheduled(ctx)
	if err != nil {
		return nil, err
	}

	reminders := grouping.Reminders(scheduled)
	if recipient != "" {
		filtered := reminders[:0]
		for _, r := range reminders {
			if r.Payload.Recipient == recipient {
				filtered = append(filtered, r)
			}
		}
		reminders = filtered
	}

	views := grouping.GroupByAppointment(reminders)
	out := make([]AppointmentReminders, 0, len(views))
	for _, view := range views {
		item := AppointmentReminders{
			AppointmentKey: view.AppointmentKey.String(),
			Tiers:          make(map[domain.Tier]*TriggerView, len(view.Tiers)),
		}
		for tier, trigger := range view.Tiers {
			if trigger == nil {
				item.Tiers[tier] = nil
				continue
			}
			if item.PatientInfo == "" {
				item.PatientInfo = trigger.Payload.PatientInfo
			}
			item.Tiers[tier] = &TriggerView{
				ID:          trigger.ID,
				ScheduledAt: trigger.ScheduledAt,
				Urgency:     urgency.Classify(now, trigger.ScheduledAt),
				Title:       trigger.Payload.Title,
				Body:        trigger.Payload.Body,
			}
		}
		out = append(out, item)
	}

	return out, nil
}

// Settings returns the stored settings, or defaults when none were saved.
func (s *Service) Settings(ctx context.Context, recipient string) (domain.Settings, error) {
	return s.settingsFor(ctx, recipient)
}

func (s *Service) settingsFor(ctx context.Context, recipient string) (domain.Settings, error) {
	settings, err := s.settingsStore.Get(ctx, recipient)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return settings, nil
}

func (s *Service) liveTriggers(ctx context.Context, key domain.AppointmentKey, tier domain.Tier) ([]domain.ReminderTrigger, error) {
	scheduled, err := s.listScheduled(ctx)
	if err != nil {
		return nil, err
	}
	return grouping.Matching(grouping.Reminders(scheduled), key, tier), nil
}

func (s *Service) listScheduled(ctx context.Context) ([]domain.ScheduledTrigger, error) {
	ctx, span := tracing.StartSinkSpan(ctx, "list")
	defer span.End()

	start := time.Now()
	scheduled, err := s.sink.ListScheduled(ctx)
	s.recordSinkCall(ctx, "list", start, err)
	tracing.RecordError(span, err)
	if err != nil {
		return nil, fmt.Errorf("%w: list scheduled triggers: %w", domain.ErrSchedulingFailed, err)
	}
	return scheduled, nil
}

func (s *Service) scheduleAt(ctx context.Context, at time.Time, payload domain.TriggerPayload) (string, error) {
	ctx, span := tracing.StartSinkSpan(ctx, "schedule")
	defer span.End()

	start := time.Now()
	triggerID, err := s.sink.ScheduleAt(ctx, at, payload)
	s.recordSinkCall(ctx, "schedule", start, err)
	tracing.RecordError(span, err)
	if err != nil {
		return "", fmt.Errorf("%w: schedule trigger: %w", domain.ErrSchedulingFailed, err)
	}
	return triggerID, nil
}

func (s *Service) cancel(ctx context.Context, triggerID string) error {
	ctx, span := tracing.StartSinkSpan(ctx, "cancel")
	defer span.End()

	start := time.Now()
	err := s.sink.Cancel(ctx, triggerID)
	s.recordSinkCall(ctx, "cancel", start, err)
	tracing.RecordError(span, err)
	if err != nil {
		return fmt.Errorf("%w: cancel trigger %s: %w", domain.ErrSchedulingFailed, triggerID, err)
	}
	return nil
}

func (s *Service) cancelAll(ctx context.Context, triggers []domain.ReminderTrigger) error {
	for _, t := range triggers {
		if err := s.cancel(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) cancelScheduled(ctx context.Context, triggers []domain.ScheduledTrigger) error {
	for _, t := range triggers {
		if err := s.cancel(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recordSinkCall(ctx context.Context, operation string, start time.Time, err error) {
	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordSinkCall(ctx, operation, time.Since(start), err)
	}
}

func (s *Service) recordToggle(ctx context.Context, recipient, operation string, result *Result) {
	if s.reminderMetrics != nil {
		s.reminderMetrics.RecordToggle(ctx, result.Tier.String(), operation, result.Outcome.String())
	}
	s.record(ctx, recipient, result.AppointmentKey, result.Tier.String(), operation, result)
}

func (s *Service) record(ctx context.Context, recipient, appointmentKey, tier, operation string, result *Result) {
	if s.recorder == nil {
		return
	}

	record := domain.ReminderOutcomeRecord{
		RunID:          uuid.NewString(),
		RecordedAt:     time.Now().UTC(),
		Recipient:      recipient,
		AppointmentKey: appointmentKey,
		Tier:           tier,
		Operation:      operation,
		Outcome:        result.Outcome.String(),
		Reason:         result.Reason,
		ScheduledAt:    result.ScheduledAt,
	}

	if err := s.recorder.RecordOutcomes(ctx, []domain.ReminderOutcomeRecord{record}); err != nil {
		slog.WarnContext(ctx, "failed to record reminder outcome",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
}
