package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange        = errors.New("appointment end must be after start")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrUnknownTier         = errors.New("unknown reminder tier")
	ErrInvalidTipTime      = errors.New("invalid daily tip time")
	ErrSchedulingFailed    = errors.New("scheduling failed")
	ErrStoreUnavailable    = errors.New("settings store unavailable")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAccessQueryFailed   = errors.New("access query failed")
)

// InvalidRangeError carries the offending window. It matches ErrInvalidRange.
type InvalidRangeError struct {
	StartAt time.Time
	EndAt   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s: start=%s end=%s",
		ErrInvalidRange.Error(),
		e.StartAt.Format(time.RFC3339),
		e.EndAt.Format(time.RFC3339),
	)
}

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
