package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const envelopeVersion = 1

// EventEnvelope is the wire shape of every event on the exchange.
type EventEnvelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload"`
}

type changePayload struct {
	Session string `json:"session,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
}

func (e EventEnvelope) Validate() error {
	if _, ok := routingKeys[e.EventName]; !ok {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != envelopeVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	if e.Producer == "" {
		return fmt.Errorf("missing producer")
	}
	return nil
}

func newEnvelope(ev Event) (EventEnvelope, error) {
	payload, err := json.Marshal(changePayload{Session: ev.Session, Key: ev.Key, Value: ev.Value})
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal %s payload: %w", ev.Name, err)
	}
	return EventEnvelope{
		EventName:     ev.Name,
		EventVersion:  envelopeVersion,
		EventID:       uuid.NewString(),
		CorrelationID: ev.CorrelationID,
		Producer:      ev.Producer,
		PartitionKey:  ev.Session,
		OccurredAt:    ev.OccurredAt,
		Payload:       payload,
	}, nil
}

func parseEnvelope(body []byte) (Event, EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, EventEnvelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if err := env.Validate(); err != nil {
		return Event{}, env, err
	}
	var p changePayload
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return Event{}, env, fmt.Errorf("unmarshal %s payload: %w", env.EventName, err)
		}
	}
	return Event{
		Name:          env.EventName,
		Session:       p.Session,
		Key:           p.Key,
		Value:         p.Value,
		Producer:      env.Producer,
		CorrelationID: env.CorrelationID,
		OccurredAt:    env.OccurredAt,
	}, env, nil
}
