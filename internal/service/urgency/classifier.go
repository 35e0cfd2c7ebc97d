package urgency

import (
	"time"
)

type Urgency string

const (
	Red    Urgency = "red"
	Yellow Urgency = "yellow"
	Green  Urgency = "green"
)

const (
	// RedThreshold and YellowThreshold are inclusive upper bounds.
	RedThreshold    = 1 * time.Hour
	YellowThreshold = 6 * time.Hour
)

func (u Urgency) String() string {
	return string(u)
}

// Classify buckets the time left until scheduledAt. Already-elapsed times are Red.
func Classify(now, scheduledAt time.Time) Urgency {
	until := scheduledAt.Sub(now)

	switch {
	case until <= RedThreshold:
		return Red
	case until <= YellowThreshold:
		return Yellow
	default:
		return Green
	}
}
