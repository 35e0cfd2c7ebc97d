package reminder

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

const (
	appointmentReminderTitle = "Upcoming dental appointment"
	dailyTipTitle            = "Daily dental tip"
)

var dailyTips = []string{
	"Brush for two minutes, twice a day, with a fluoride toothpaste.",
	"Floss once a day to clean where your brush can't reach.",
	"Replace your toothbrush every three months or after being sick.",
	"Spit, don't rinse, after brushing to keep the fluoride working.",
	"Limit sugary drinks between meals to give your teeth a break.",
	"Drink water after meals to help wash away food and acids.",
	"Brush your tongue gently to keep your breath fresh.",
}

func leadTimeText(tier domain.Tier) string {
	switch tier {
	case domain.Tier24h:
		return "tomorrow"
	case domain.Tier1h:
		return "in 1 hour"
	case domain.Tier15m:
		return "in 15 minutes"
	default:
		return "soon"
	}
}

func appointmentPayload(appt *domain.Appointment, key domain.AppointmentKey, tier domain.Tier) domain.TriggerPayload {
	purpose := appt.Purpose.String()
	if purpose == "" {
		purpose = domain.PurposeOther.String()
	}

	return domain.TriggerPayload{
		Kind:  domain.PayloadAppointmentReminder,
		Title: appointmentReminderTitle,
		Body: fmt.Sprintf("Your %s appointment at %s is %s (%s %s).",
			purpose, appt.ClinicName, leadTimeText(tier), key.Date, key.Time),
		Recipient:      appt.NHI,
		PatientInfo:    appt.PatientInfo,
		AppointmentKey: key,
		Tier:           tier,
	}
}

func dailyTipPayload(recipient string, at time.Time) domain.TriggerPayload {
	return domain.TriggerPayload{
		Kind:      domain.PayloadDailyTip,
		Title:     dailyTipTitle,
		Body:      dailyTips[at.YearDay()%len(dailyTips)],
		Recipient: recipient,
	}
}
