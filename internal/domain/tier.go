package domain

import (
	"fmt"
	"time"
)

// Tier is a reminder lead time. The string values are stored in sink payloads
// and must not be renamed.
type Tier string

const (
	Tier24h Tier = "24h"
	Tier1h  Tier = "1h"
	Tier15m Tier = "15m"
)

var tierOffsets = map[Tier]time.Duration{
	Tier24h: 86400 * time.Second,
	Tier1h:  3600 * time.Second,
	Tier15m: 900 * time.Second,
}

// Tiers returns every tier, longest lead time first.
func Tiers() []Tier {
	return []Tier{Tier24h, Tier1h, Tier15m}
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

func (t Tier) String() string {
	return string(t)
}

func (t Tier) Valid() bool {
	_, ok := tierOffsets[t]
	return ok
}

// Offset is how long before the appointment start the tier fires.
func (t Tier) Offset() time.Duration {
	return tierOffsets[t]
}

// FireTime returns the trigger time for an appointment starting at startAt.
func (t Tier) FireTime(startAt time.Time) time.Time {
	return startAt.Add(-t.Offset())
}
