package domain

import (
	"time"
)

// PayloadKind tags the variant carried by a TriggerPayload.
type PayloadKind string

const (
	PayloadAppointmentReminder PayloadKind = "appointment_reminder"
	PayloadDailyTip            PayloadKind = "daily_tip"
	PayloadOther               PayloadKind = "other"
)

// TriggerPayload is written into the sink and read back verbatim.
// AppointmentKey and Tier are only meaningful for PayloadAppointmentReminder.
type TriggerPayload struct {
	Kind           PayloadKind    `json:"type"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Recipient      string         `json:"recipient,omitempty"`
	PatientInfo    string         `json:"patientInfo,omitempty"`
	AppointmentKey AppointmentKey `json:"appointmentKey,omitzero"`
	Tier           Tier           `json:"tier,omitempty"`
}

// Normalize folds unknown kinds into PayloadOther so callers can switch exhaustively.
func (p TriggerPayload) Normalize() TriggerPayload {
	switch p.Kind {
	case PayloadAppointmentReminder:
		if p.AppointmentKey.IsZero() || !p.Tier.Valid() {
			p.Kind = PayloadOther
		}
	case PayloadDailyTip:
	default:
		p.Kind = PayloadOther
	}
	return p
}

// ScheduledTrigger is one entry of the sink's flat listing.
type ScheduledTrigger struct {
	ID          string
	ScheduledAt time.Time
	Payload     TriggerPayload
}

// ReminderTrigger is a live appointment reminder for one tier.
type ReminderTrigger struct {
	ID             string         `json:"id"`
	AppointmentKey AppointmentKey `json:"appointment_key"`
	Tier           Tier           `json:"tier"`
	ScheduledAt    time.Time      `json:"scheduled_at"`
	Payload        TriggerPayload `json:"payload"`
}

// AsReminder converts a sink entry into a ReminderTrigger when it carries an
// appointment reminder payload.
func (s ScheduledTrigger) AsReminder() (ReminderTrigger, bool) {
	p := s.Payload.Normalize()
	if p.Kind != PayloadAppointmentReminder {
		return ReminderTrigger{}, false
	}
	return ReminderTrigger{
		ID:             s.ID,
		AppointmentKey: p.AppointmentKey,
		Tier:           p.Tier,
		ScheduledAt:    s.ScheduledAt,
		Payload:        p,
	}, true
}

func (r ReminderTrigger) Scheduled() ScheduledTrigger {
	return ScheduledTrigger{
		ID:          r.ID,
		ScheduledAt: r.ScheduledAt,
		Payload:     r.Payload,
	}
}
