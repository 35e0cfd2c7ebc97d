package grouping

import (
	"sort"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

// AppointmentReminderView holds every tier of one appointment. A nil entry
// means the tier is not scheduled.
type AppointmentReminderView struct {
	AppointmentKey domain.AppointmentKey
	Tiers          map[domain.Tier]*domain.ReminderTrigger
}

func newView(key domain.AppointmentKey) AppointmentReminderView {
	tiers := make(map[domain.Tier]*domain.ReminderTrigger, len(domain.Tiers()))
	for _, tier := range domain.Tiers() {
		tiers[tier] = nil
	}
	return AppointmentReminderView{
		AppointmentKey: key,
		Tiers:          tiers,
	}
}

// Trigger returns the live trigger for tier, or nil.
func (v AppointmentReminderView) Trigger(tier domain.Tier) *domain.ReminderTrigger {
	return v.Tiers[tier]
}

// GroupByAppointment folds a flat trigger list into one view per appointment
// key, sorted by key. When the same (key, tier) appears more than once the
// earliest trigger wins (ties broken by ID), so the result does not depend on
// input order.
func GroupByAppointment(triggers []domain.ReminderTrigger) []AppointmentReminderView {
	byKey := make(map[domain.AppointmentKey]AppointmentReminderView)

	for i := range triggers {
		trigger := triggers[i]
		if !trigger.Tier.Valid() {
			continue
		}

		view, ok := byKey[trigger.AppointmentKey]
		if !ok {
			view = newView(trigger.AppointmentKey)
			byKey[trigger.AppointmentKey] = view
		}

		if current := view.Tiers[trigger.Tier]; current == nil || precedes(trigger, *current) {
			view.Tiers[trigger.Tier] = &trigger
		}
	}

	views := make([]AppointmentReminderView, 0, len(byKey))
	for _, view := range byKey {
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].AppointmentKey.String() < views[j].AppointmentKey.String()
	})

	return views
}

// GroupScheduled filters the sink listing down to appointment reminders and groups them.
func GroupScheduled(scheduled []domain.ScheduledTrigger) []AppointmentReminderView {
	return GroupByAppointment(Reminders(scheduled))
}

func Reminders(scheduled []domain.ScheduledTrigger) []domain.ReminderTrigger {
	reminders := make([]domain.ReminderTrigger, 0, len(scheduled))
	for _, s := range scheduled {
		if r, ok := s.AsReminder(); ok {
			reminders = append(reminders, r)
		}
	}
	return reminders
}

// Flatten is the inverse of GroupByAppointment.
func Flatten(views []AppointmentReminderView) []domain.ReminderTrigger {
	triggers := make([]domain.ReminderTrigger, 0, len(views)*len(domain.Tiers()))
	for _, view := range views {
		for _, tier := range domain.Tiers() {
			if t := view.Tiers[tier]; t != nil {
				triggers = append(triggers, *t)
			}
		}
	}
	return triggers
}

func precedes(a, b domain.ReminderTrigger) bool {
	if !a.ScheduledAt.Equal(b.ScheduledAt) {
		return a.ScheduledAt.Before(b.ScheduledAt)
	}
	return a.ID < b.ID
}

// Matching returns every trigger for (key, tier), the preferred one first.
func Matching(triggers []domain.ReminderTrigger, key domain.AppointmentKey, tier domain.Tier) []domain.ReminderTrigger {
	matched := make([]domain.ReminderTrigger, 0, 1)
	for _, t := range triggers {
		if t.AppointmentKey == key && t.Tier == tier {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return precedes(matched[i], matched[j])
	})
	return matched
}
