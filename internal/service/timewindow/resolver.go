package timewindow

import (
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

// DefaultDuration applies to purposes missing from the table.
const DefaultDuration = 30 * time.Minute

var purposeDurations = map[domain.Purpose]time.Duration{
	domain.PurposeCheckUp:   30 * time.Minute,
	domain.PurposeCleaning:  60 * time.Minute,
	domain.PurposeRootCanal: 90 * time.Minute,
	domain.PurposeCrown:     60 * time.Minute,
	domain.PurposeOther:     30 * time.Minute,
}

func Duration(purpose domain.Purpose) time.Duration {
	if d, ok := purposeDurations[purpose]; ok {
		return d
	}
	return DefaultDuration
}

// ResolveEnd derives the appointment end from its start and purpose. The result
// is expressed in the given timezone.
func ResolveEnd(startAt time.Time, purpose domain.Purpose, timezone string) (time.Time, error) {
	appt := domain.Appointment{Timezone: timezone}
	loc, err := appt.Location()
	if err != nil {
		return time.Time{}, err
	}
	return startAt.Add(Duration(purpose)).In(loc), nil
}

func ValidateRange(startAt, endAt time.Time) error {
	if !endAt.After(startAt) {
		return &domain.InvalidRangeError{StartAt: startAt, EndAt: endAt}
	}
	return nil
}

// Complete fills a missing end time and validates the window.
func Complete(appt *domain.Appointment) error {
	if appt.EndAt.IsZero() {
		end, err := ResolveEnd(appt.StartAt, appt.Purpose, appt.Timezone)
		if err != nil {
			return err
		}
		appt.EndAt = end
	}
	return ValidateRange(appt.StartAt, appt.EndAt)
}
