package events

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

const (
	EventTypeCheckoutCompleted = "CheckoutCompleted"
	checkoutCompletedVersion   = 1
)

type CheckoutItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// CheckoutCompletedPayload is the v1 payload of CheckoutCompleted. Money
// fields accept JSON numbers or strings.
type CheckoutCompletedPayload struct {
	CartID           string           `json:"cartId"`
	OrderNumber      string           `json:"orderNumber,omitempty"`
	Items            []CheckoutItem   `json:"items"`
	ShippingAddress  supplier.Address `json:"shippingAddress"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	ShippingCost     decimal.Decimal  `json:"shippingCost"`
	Discount         decimal.Decimal  `json:"discount"`
	Total            decimal.Decimal  `json:"total"`
	PaymentMethod    string           `json:"paymentMethod"`
	PaymentReference string           `json:"paymentReference"`
	Strategy         string           `json:"strategy,omitempty"`
	AutoSubmit       *bool            `json:"autoSubmit,omitempty"`
}

// CheckoutRequest converts the payload, falling back to defaultAutoSubmit when
// the producer did not say.
func (p CheckoutCompletedPayload) CheckoutRequest(defaultAutoSubmit bool) order.CheckoutRequest {
	req := order.CheckoutRequest{
		OrderNumber:      p.OrderNumber,
		Items:            make([]routing.CartItem, 0, len(p.Items)),
		ShippingAddress:  p.ShippingAddress,
		Subtotal:         p.Subtotal,
		ShippingCost:     p.ShippingCost,
		Discount:         p.Discount,
		Total:            p.Total,
		PaymentMethod:    p.PaymentMethod,
		PaymentReference: p.PaymentReference,
		Strategy:         p.Strategy,
		AutoSubmit:       defaultAutoSubmit,
	}
	if p.AutoSubmit != nil {
		req.AutoSubmit = *p.AutoSubmit
	}
	for _, it := range p.Items {
		req.Items = append(req.Items, routing.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return req
}

type checkoutCompletedMessage struct {
	Payload  CheckoutCompletedPayload
	Envelope *EventEnvelope
}

// parseCheckoutCompleted reads an incoming CheckoutCompleted message. With
// allowEnveloped it tries the v1 envelope first and falls back to the legacy
// bare payload.
func parseCheckoutCompleted(body []byte, allowEnveloped bool) (checkoutCompletedMessage, error) {
	if allowEnveloped {
		var env EventEnvelope
		if err := json.Unmarshal(body, &env); err == nil && env.EventName != "" {
			if err := env.Validate(EventTypeCheckoutCompleted, checkoutCompletedVersion); err != nil {
				return checkoutCompletedMessage{}, fmt.Errorf("invalid envelope: %w", err)
			}
			var payload CheckoutCompletedPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				return checkoutCompletedMessage{}, fmt.Errorf("unmarshal CheckoutCompleted payload: %w", err)
			}
			if payload.CartID == "" {
				return checkoutCompletedMessage{}, fmt.Errorf("invalid payload: missing cartId")
			}
			return checkoutCompletedMessage{Payload: payload, Envelope: &env}, nil
		}
	}

	var payload CheckoutCompletedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return checkoutCompletedMessage{}, fmt.Errorf("unmarshal legacy CheckoutCompleted: %w", err)
	}
	if payload.CartID == "" {
		return checkoutCompletedMessage{}, fmt.Errorf("invalid payload: missing cartId")
	}
	return checkoutCompletedMessage{Payload: payload}, nil
}
