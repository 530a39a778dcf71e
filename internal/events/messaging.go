package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange              = "ecommerce.events"
	OrderPlacedRoutingKey       = "order.placed.v1"
	CheckoutCompletedRoutingKey = "checkout.completed.v1"
	fulfillmentServiceName      = "fulfillment-service-go"
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

// QueueName is the durable queue this service binds for routingKey.
func QueueName(routingKey string) string {
	return serviceQueue(fulfillmentServiceName, routingKey)
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
