package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// SupplierBreakdown summarises what one supplier fulfills, for the admin view.
type SupplierBreakdown struct {
	Items []string `json:"items"`
	Cost  float64  `json:"cost"`
	Days  int      `json:"days"`
}

type Order struct {
	ID               string           `json:"orderId"`
	Items            []Item           `json:"items"`
	ShippingAddress  supplier.Address `json:"shippingAddress"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	ShippingCost     decimal.Decimal  `json:"shippingCost"`
	Discount         decimal.Decimal  `json:"discount"`
	Total            decimal.Decimal  `json:"total"`
	PaymentMethod    string           `json:"paymentMethod"`
	PaymentReference string           `json:"paymentReference"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`

	SupplierBreakdown map[string]SupplierBreakdown `json:"supplierBreakdown,omitempty"`
	AutoSubmitted     bool                         `json:"autoSubmitted"`
	SupplierStatus    string                       `json:"supplierStatus,omitempty"`
	SupplierErrors    []string                     `json:"supplierErrors,omitempty"`
}

func itemsFromCart(cart []routing.CartItem) []Item {
	items := make([]Item, 0, len(cart))
	for _, it := range cart {
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return items
}

// BuildBreakdown summarises supplier groups keyed by supplier id.
func BuildBreakdown(orders []routing.SupplierOrder) map[string]SupplierBreakdown {
	out := make(map[string]SupplierBreakdown, len(orders))
	for _, so := range orders {
		b := SupplierBreakdown{
			Items: make([]string, 0, len(so.Items)),
			Cost:  so.TotalCost.Round(2).InexactFloat64(),
			Days:  so.ShippingDays,
		}
		for _, it := range so.Items {
			b.Items = append(b.Items, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		out[string(so.Supplier)] = b
	}
	return out
}
