package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one message body. A returned error NACKs the message
// without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

func DialRabbit(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

type Consumer struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConsumer(conn *amqp.Connection, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{conn: conn, logger: logger}
}

// Start binds this service's queue for routingKey on the events exchange and
// hands deliveries to h until ctx is done or the channel closes.
func (c *Consumer) Start(ctx context.Context, routingKey string, h HandlerFunc) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare events exchange: %w", err)
	}

	queue := QueueName(routingKey)
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue declare %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, routingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue bind %s: %w", queue, err)
	}

	msgs, err := ch.Consume(
		queue,
		fulfillmentServiceName, // consumer tag
		false,                  // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	log := c.logger.With(zap.String("queue", queue))
	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				log.Info("stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn("messages channel closed")
					return
				}
				c.dispatch(ctx, log, msg, h)
			}
		}
	}()

	return nil
}

func (c *Consumer) dispatch(ctx context.Context, log *zap.Logger, msg amqp.Delivery, h HandlerFunc) {
	if err := h(ctx, msg.Body); err != nil {
		log.Error("handle message failed", zap.String("message_id", msg.MessageId), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}
