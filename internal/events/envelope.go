package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventEnvelope is the shared envelope of v1 event contracts.
type EventEnvelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	CausationID   string          `json:"causationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	Sequence      int64           `json:"sequence,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Schema        string          `json:"schema"`
	Payload       json.RawMessage `json:"payload"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	return nil
}

// EventMeta carries correlation context into emitted events.
type EventMeta struct {
	CorrelationID string
	CausationID   string
	PartitionKey  string
}

type metaKey struct{}

// WithMeta attaches event metadata to ctx so a publish further down the call
// chain can link to the event that caused it.
func WithMeta(ctx context.Context, meta EventMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

func metaFrom(ctx context.Context) EventMeta {
	meta, _ := ctx.Value(metaKey{}).(EventMeta)
	return meta
}
