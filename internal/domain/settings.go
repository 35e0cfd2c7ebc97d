package domain

import (
	"fmt"
	"time"
)

const (
	DefaultDailyTipTime = "09:00"
	DefaultTimezone     = "Pacific/Auckland"

	tipTimeLayout = "15:04"
)

type Settings struct {
	AppointmentReminders bool   `json:"appointmentReminders"`
	ReminderTime24h      bool   `json:"reminderTime24h"`
	ReminderTime1h       bool   `json:"reminderTime1h"`
	ReminderTime15m      bool   `json:"reminderTime15m"`
	DailyTips            bool   `json:"dailyTips"`
	DailyTipTime         string `json:"dailyTipTime"`
	Timezone             string `json:"timezone,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		AppointmentReminders: true,
		ReminderTime24h:      true,
		ReminderTime1h:       true,
		ReminderTime15m:      false,
		DailyTips:            true,
		DailyTipTime:         DefaultDailyTipTime,
		Timezone:             DefaultTimezone,
	}
}

// TierEnabled reports the per-tier flag, ignoring the global gate.
func (s Settings) TierEnabled(t Tier) bool {
	switch t {
	case Tier24h:
		return s.ReminderTime24h
	case Tier1h:
		return s.ReminderTime1h
	case Tier15m:
		return s.ReminderTime15m
	default:
		return false
	}
}

func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.LoadLocation(DefaultTimezone)
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}
	return loc, nil
}

// NextDailyTip returns the first occurrence of DailyTipTime strictly after now.
func (s Settings) NextDailyTip(now time.Time) (time.Time, error) {
	clock, err := time.Parse(tipTimeLayout, s.DailyTipTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTipTime, s.DailyTipTime)
	}
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, clock.Hour(), clock.Minute(), 0, 0, loc)
	}
	return next, nil
}
