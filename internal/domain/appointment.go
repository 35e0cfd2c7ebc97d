package domain

import (
	"fmt"
	"strings"
	"time"
)

type Purpose string

const (
	PurposeCheckUp   Purpose = "Check-up"
	PurposeCleaning  Purpose = "Cleaning"
	PurposeRootCanal Purpose = "Root canal"
	PurposeCrown     Purpose = "Crown"
	PurposeOther     Purpose = "Other"
)

func (p Purpose) String() string {
	return string(p)
}

type Appointment struct {
	ID          string
	NHI         string
	StartAt     time.Time
	EndAt       time.Time
	Timezone    string
	Purpose     Purpose
	ClinicName  string
	PatientInfo string
}

// Location resolves the appointment timezone, falling back to UTC when unset.
func (a *Appointment) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, a.Timezone)
	}
	return loc, nil
}

// Key returns the composite key used to correlate sink triggers with this appointment.
func (a *Appointment) Key() (AppointmentKey, error) {
	loc, err := a.Location()
	if err != nil {
		return AppointmentKey{}, err
	}
	local := a.StartAt.In(loc)
	return AppointmentKey{
		Date:       local.Format(keyDateLayout),
		Time:       local.Format(keyTimeLayout),
		ClinicName: a.ClinicName,
	}, nil
}

const (
	keyDateLayout = "2006-01-02"
	keyTimeLayout = "15:04"
	keySeparator  = "|"
)

// AppointmentKey identifies an appointment by (date, time, clinic) since the
// sink has no stable appointment id.
type AppointmentKey struct {
	Date       string
	Time       string
	ClinicName string
}

func (k AppointmentKey) String() string {
	return k.Date + keySeparator + k.Time + keySeparator + k.ClinicName
}

func (k AppointmentKey) IsZero() bool {
	return k == AppointmentKey{}
}

func ParseAppointmentKey(s string) (AppointmentKey, error) {
	parts := strings.SplitN(s, keySeparator, 3)
	if len(parts) != 3 {
		return AppointmentKey{}, fmt.Errorf("malformed appointment key %q", s)
	}
	return AppointmentKey{Date: parts[0], Time: parts[1], ClinicName: parts[2]}, nil
}

func (k AppointmentKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AppointmentKey) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = AppointmentKey{}
		return nil
	}
	parsed, err := ParseAppointmentKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
