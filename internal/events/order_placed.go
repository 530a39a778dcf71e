package events

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
)

const (
	EventTypeOrderPlaced = "OrderPlaced"
	orderPlacedVersion   = 1
	orderPlacedSchema    = "ecommerce.fulfillment.order-placed.v1"
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderPlacedPayload is the v1 payload of OrderPlaced.
type OrderPlacedPayload struct {
	OrderID           string                             `json:"orderId"`
	Items             []OrderItem                        `json:"items"`
	Total             float64                            `json:"total"`
	PaymentReference  string                             `json:"paymentReference,omitempty"`
	SupplierStatus    string                             `json:"supplierStatus"`
	SupplierErrors    []string                           `json:"supplierErrors,omitempty"`
	AutoSubmitted     bool                               `json:"autoSubmitted"`
	SupplierBreakdown map[string]order.SupplierBreakdown `json:"supplierBreakdown,omitempty"`
	Timestamp         time.Time                          `json:"timestamp"`
}

// LegacyOrderPlaced is the bare, non-enveloped form.
type LegacyOrderPlaced struct {
	EventType string `json:"eventType"`
	OrderPlacedPayload
}

func newOrderPlacedPayload(o *order.Order, ts time.Time) OrderPlacedPayload {
	p := OrderPlacedPayload{
		OrderID:           o.ID,
		Items:             make([]OrderItem, 0, len(o.Items)),
		Total:             o.Total.InexactFloat64(),
		PaymentReference:  o.PaymentReference,
		SupplierStatus:    o.SupplierStatus,
		SupplierErrors:    o.SupplierErrors,
		AutoSubmitted:     o.AutoSubmitted,
		SupplierBreakdown: o.SupplierBreakdown,
		Timestamp:         ts,
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
		})
	}
	return p
}
