package reminder

import (
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/urgency"
)

type Outcome string

const (
	OutcomeScheduled        Outcome = "scheduled"
	OutcomeRescheduled      Outcome = "rescheduled"
	OutcomeCancelled        Outcome = "cancelled"
	OutcomeSkipped          Outcome = "skipped"
	OutcomeAlreadyScheduled Outcome = "already_scheduled"
	OutcomeAlreadyCancelled Outcome = "already_cancelled"
)

const (
	SkipReasonPast             = "in the past"
	SkipReasonDisabled         = "reminders disabled globally"
	SkipReasonStoreUnavailable = "settings unavailable"
)

func (o Outcome) String() string {
	return string(o)
}

// Result describes what a scheduling call did. Skipped and already_* outcomes
// are successful no-ops, not errors.
type Result struct {
	AppointmentKey string      `json:"appointment_key,omitempty"`
	Tier           domain.Tier `json:"tier,omitempty"`
	Outcome        Outcome     `json:"outcome"`
	Reason         string      `json:"reason,omitempty"`
	TriggerID      string      `json:"trigger_id,omitempty"`
	ScheduledAt    time.Time   `json:"scheduled_at,omitzero"`
}

func (r *Result) Skipped() bool {
	return r.Outcome == OutcomeSkipped
}

type TriggerView struct {
	ID          string          `json:"id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Urgency     urgency.Urgency `json:"urgency"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
}

// AppointmentReminders lists every tier of an appointment; unscheduled tiers are null.
type AppointmentReminders struct {
	AppointmentKey string                       `json:"appointment_key"`
	PatientInfo    string                       `json:"patient_info,omitempty"`
	Tiers          map[domain.Tier]*TriggerView `json:"tiers"`
}
