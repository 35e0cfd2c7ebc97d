package sink

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

// MemorySink keeps triggers in process and never fires them.
type MemorySink struct {
	mu       sync.Mutex
	seq      int
	triggers map[string]domain.ScheduledTrigger

	scheduleCalls int
	cancelCalls   int
	listCalls     int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		triggers: make(map[string]domain.ScheduledTrigger),
	}
}

func (m *MemorySink) ScheduleAt(_ context.Context, at time.Time, payload domain.TriggerPayload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scheduleCalls++
	m.seq++
	id := fmt.Sprintf("trigger-%04d", m.seq)
	m.triggers[id] = domain.ScheduledTrigger{
		ID:          id,
		ScheduledAt: at,
		Payload:     payload,
	}
	return id, nil
}

func (m *MemorySink) Cancel(_ context.Context, triggerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelCalls++
	delete(m.triggers, triggerID)
	return nil
}

func (m *MemorySink) ListScheduled(_ context.Context) ([]domain.ScheduledTrigger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	return m.snapshotLocked(), nil
}

// Put stores a trigger as-is, bypassing id assignment.
func (m *MemorySink) Put(trigger domain.ScheduledTrigger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.triggers[trigger.ID] = trigger
}

// Calls returns how many schedule and cancel calls reached the sink.
func (m *MemorySink) Calls() (schedules, cancels int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.scheduleCalls, m.cancelCalls
}

func (m *MemorySink) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listCalls
}

func (m *MemorySink) snapshotLocked() []domain.ScheduledTrigger {
	out := make([]domain.ScheduledTrigger, 0, len(m.triggers))
	for _, t := range m.triggers {
		out = append(out, t)
	}
	sortTriggers(out)
	return out
}

func sortTriggers(triggers []domain.ScheduledTrigger) {
	sort.Slice(triggers, func(i, j int) bool {
		if !triggers[i].ScheduledAt.Equal(triggers[j].ScheduledAt) {
			return triggers[i].ScheduledAt.Before(triggers[j].ScheduledAt)
		}
		return triggers[i].ID < triggers[j].ID
	})
}
