//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/fulfillment"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier/cjdropshipping"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/testutil"
)

const checkoutPayload = `{
	"cartId": "cart-int-1",
	"items": [
		{"productId": "tws-pro-earbuds", "name": "TWS Pro Earbuds", "unitPrice": 35, "quantity": 2},
		{"productId": "smart-watch-fit", "name": "Smart Watch Fit", "unitPrice": 49, "quantity": 1}
	],
	"shippingAddress": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "phone": "1",
		"address": "12 Analytical Row", "city": "London", "state": "LDN", "zipCode": "N1", "country": "GB"},
	"subtotal": 119, "shippingCost": 0, "discount": 0, "total": 119,
	"paymentMethod": "card", "paymentReference": "pi_int",
	"autoSubmit": true
}`

func TestCheckoutCompleted_PlacesOrderAndPublishesOrderPlaced(t *testing.T) {
	db, _ := testutil.StartPostgres(t)
	conn := testutil.StartRabbitMQ(t)
	log := zap.NewNop()

	cj := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"result":true,"message":"Success","data":{"orderId":"CJ-1","status":"CREATED"}}`))
	}))
	t.Cleanup(cj.Close)

	cat, err := catalog.Default()
	require.NoError(t, err)
	adapter, err := cjdropshipping.NewAdapter(cjdropshipping.Config{BaseURL: cj.URL, AccessToken: "tok", Timeout: 5 * time.Second})
	require.NoError(t, err)

	router := routing.NewRouter(cat)
	gateway := fulfillment.NewGateway(router, supplier.NewRegistry(adapter), fulfillment.Options{MaxConcurrent: 2}, log)

	publisher, err := events.NewPublisher(conn, sequence.NewRepository(db), events.PublisherOptions{PublishEnveloped: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	repo := order.NewRepository(db)
	assembler := order.NewAssembler(router, gateway, repo, publisher, order.AssemblerOptions{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Bind a probe queue for OrderPlaced before anything is published.
	probe, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = probe.Close() })
	q, err := probe.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, probe.QueueBind(q.Name, events.OrderPlacedRoutingKey, events.EventsExchange, false, nil))
	placed, err := probe.Consume(q.Name, "integration-probe", true, true, false, false, nil)
	require.NoError(t, err)

	consumer := events.NewConsumer(conn, log)
	handler := events.CheckoutCompletedHandler(assembler, dedup.NewRepository(db), log, events.CheckoutHandlerOptions{ConsumeEnveloped: true})
	require.NoError(t, consumer.Start(ctx, events.CheckoutCompletedRoutingKey, handler))

	env := events.EventEnvelope{
		EventName:     events.EventTypeCheckoutCompleted,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: "corr-int",
		Producer:      "checkout-service",
		PartitionKey:  "cart-int-1",
		Sequence:      1,
		OccurredAt:    time.Now().UTC(),
		Schema:        "ecommerce.checkout.checkout-completed.v1",
		Payload:       json.RawMessage(checkoutPayload),
	}
	body, err := json.Marshal(env)
	require.NoError(t, err)

	pubCh, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pubCh.Close() })
	require.NoError(t, pubCh.PublishWithContext(ctx, events.EventsExchange, events.CheckoutCompletedRoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}))

	var got events.EventEnvelope
	select {
	case msg := <-placed:
		require.NoError(t, json.Unmarshal(msg.Body, &got))
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for OrderPlaced")
	}

	require.NoError(t, got.Validate(events.EventTypeOrderPlaced, 1))
	assert.Equal(t, "corr-int", got.CorrelationID)
	assert.Equal(t, env.EventID, got.CausationID)
	assert.Equal(t, int64(1), got.Sequence)

	var payload events.OrderPlacedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "partial", payload.SupplierStatus)
	assert.Equal(t, []string{"Zendrop: manual order required - no API integration"}, payload.SupplierErrors)

	stored, err := repo.GetByID(ctx, payload.OrderID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, order.StatusProcessing, stored.Status)
	assert.Len(t, stored.SupplierBreakdown, 2)

	require.Eventually(t, func() bool {
		last, ok, err := dedup.NewRepository(db).GetLastSequence(ctx, events.CheckoutCompletedConsumerName, "cart-int-1")
		return err == nil && ok && last == 1
	}, 10*time.Second, 200*time.Millisecond)
}
