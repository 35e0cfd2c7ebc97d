package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/push"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/reminder"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=delivery

// TipScheduler re-arms a recipient's daily tip after one fires.
type TipScheduler interface {
	Settings(ctx context.Context, recipient string) (domain.Settings, error)
	ScheduleDailyTip(ctx context.Context, recipient string, settings domain.Settings) (*reminder.Result, error)
}

type Service struct {
	sender          push.Sender
	tips            TipScheduler
	reminderMetrics *metrics.ReminderMetrics
}

func NewService(sender push.Sender, tips TipScheduler, reminderMetrics *metrics.ReminderMetrics) *Service {
	return &Service{
		sender:          sender,
		tips:            tips,
		reminderMetrics: reminderMetrics,
	}
}

// Deliver pushes a fired trigger to the patient. Payloads of unknown kind are
// dropped without error so the queue does not retry them.
func (s *Service) Deliver(ctx context.Context, trigger domain.ScheduledTrigger) error {
	payload := trigger.Payload.Normalize()

	switch payload.Kind {
	case domain.PayloadAppointmentReminder:
		err := s.send(ctx, trigger.ID, payload, map[string]string{
			"type":           string(payload.Kind),
			"triggerId":      trigger.ID,
			"appointmentKey": payload.AppointmentKey.String(),
			"tier":           payload.Tier.String(),
		})
		s.recordDelivery(ctx, payload.Kind, err)
		return err

	case domain.PayloadDailyTip:
		err := s.send(ctx, trigger.ID, payload, map[string]string{
			"type":      string(payload.Kind),
			"triggerId": trigger.ID,
		})
		s.recordDelivery(ctx, payload.Kind, err)
		if rearmErr := s.rearmDailyTip(ctx, payload.Recipient); rearmErr != nil {
			slog.ErrorContext(ctx, "failed to re-arm daily tip",
				slog.String("recipient", payload.Recipient),
				slog.String("error", rearmErr.Error()),
			)
		}
		return err

	default:
		slog.WarnContext(ctx, "dropping trigger with unsupported payload",
			slog.String("trigger_id", trigger.ID),
			slog.String("type", string(trigger.Payload.Kind)),
		)
		s.recordDelivery(ctx, payload.Kind, nil)
		return nil
	}
}

func (s *Service) send(ctx context.Context, triggerID string, payload domain.TriggerPayload, data map[string]string) error {
	messageID, err := s.sender.Send(ctx, push.Message{
		Recipient: payload.Recipient,
		Title:     payload.Title,
		Body:      payload.Body,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to deliver trigger %s: %w", triggerID, err)
	}

	slog.InfoContext(ctx, "trigger delivered",
		slog.String("trigger_id", triggerID),
		slog.String("type", string(payload.Kind)),
		slog.String("recipient", payload.Recipient),
		slog.String("message_id", messageID),
	)
	return nil
}

func (s *Service) rearmDailyTip(ctx context.Context, recipient string) error {
	if s.tips == nil || recipient == "" {
		return nil
	}

	settings, err := s.tips.Settings(ctx, recipient)
	if err != nil {
		return err
	}

	_, err = s.tips.ScheduleDailyTip(ctx, recipient, settings)
	return err
}

func (s *Service) recordDelivery(ctx context.Context, kind domain.PayloadKind, err error) {
	if s.reminderMetrics == nil {
		return
	}
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	if kind == domain.PayloadOther {
		outcome = "dropped"
	}
	s.reminderMetrics.RecordDelivery(ctx, string(kind), outcome)
}
