package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

// TypeTriggerFire is the task type every sink backend enqueues.
const TypeTriggerFire = "trigger:fire"

// Envelope is the wire body of a scheduled trigger. Backends that lose the
// scheduled time on delivery read it back from here.
type Envelope struct {
	ID          string                `json:"id"`
	ScheduledAt time.Time             `json:"scheduled_at"`
	Payload     domain.TriggerPayload `json:"payload"`
}

func (e Envelope) Trigger() domain.ScheduledTrigger {
	return domain.ScheduledTrigger{
		ID:          e.ID,
		ScheduledAt: e.ScheduledAt,
		Payload:     e.Payload,
	}
}

func EncodeEnvelope(id string, at time.Time, payload domain.TriggerPayload) ([]byte, error) {
	b, err := json.Marshal(Envelope{ID: id, ScheduledAt: at.UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger envelope: %w", err)
	}
	return b, nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal trigger envelope: %w", err)
	}
	if e.ID == "" {
		return Envelope{}, fmt.Errorf("trigger envelope has no id")
	}
	return e, nil
}
