package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/sequence"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch                 amqpChannel
	seqRepo            sequence.Repository
	publishEnveloped   bool
	producerIdentifier string
	now                func() time.Time
}

type PublisherOptions struct {
	PublishEnveloped bool
	Producer         string
}

func NewPublisher(conn *amqp.Connection, seqRepo sequence.Repository, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seqRepo, opts), nil
}

func newPublisher(ch amqpChannel, seqRepo sequence.Repository, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = fulfillmentServiceName
	}
	return &Publisher{
		ch:                 ch,
		seqRepo:            seqRepo,
		publishEnveloped:   opts.PublishEnveloped,
		producerIdentifier: producer,
		now:                time.Now,
	}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced announces a placed order on order.placed.v1. The order id
// is the partition key.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	timestamp := p.now().UTC()
	payload := newOrderPlacedPayload(o, timestamp)

	if !p.publishEnveloped {
		body, err := json.Marshal(LegacyOrderPlaced{EventType: EventTypeOrderPlaced, OrderPlacedPayload: payload})
		if err != nil {
			return fmt.Errorf("marshal OrderPlaced: %w", err)
		}
		return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
	}

	meta := metaFrom(ctx)
	meta.PartitionKey = o.ID
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}

	seq, err := p.seqRepo.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced payload: %w", err)
	}

	env := EventEnvelope{
		EventName:     EventTypeOrderPlaced,
		EventVersion:  orderPlacedVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      p.producerIdentifier,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    timestamp,
		Schema:        orderPlacedSchema,
		Payload:       raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
