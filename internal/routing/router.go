package routing

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
)

// CartItem is one line of the purchaser's cart.
type CartItem struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
}

// LineTotal is the retail value of the line.
func (it CartItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// AssignedItem is a cart item together with the offer chosen for it.
type AssignedItem struct {
	CartItem
	SKU      string          `json:"sku"`
	UnitCost decimal.Decimal `json:"unitCost"`
}

// SupplierOrder groups the items destined for one supplier.
type SupplierOrder struct {
	Supplier     catalog.SupplierID `json:"supplier"`
	Items        []AssignedItem     `json:"items"`
	TotalCost    decimal.Decimal    `json:"totalCost"`
	ShippingDays int                `json:"estimatedDays"`
}

// Plan is the outcome of routing a cart.
type Plan struct {
	Orders []SupplierOrder `json:"supplierOrders"`
	// Unroutable holds items whose product has no catalog offer. They are not
	// part of any supplier order.
	Unroutable []CartItem `json:"unroutable,omitempty"`
}

// TotalCost sums the cost of every supplier order.
func (p Plan) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, so := range p.Orders {
		total = total.Add(so.TotalCost)
	}
	return total
}

// RetailTotal sums unit price times quantity over items.
func RetailTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Router partitions carts into per-supplier orders using a catalog.
type Router struct {
	catalog *catalog.Catalog
}

func NewRouter(c *catalog.Catalog) *Router {
	return &Router{catalog: c}
}

// Route assigns every item to the supplier picked by strategy. Groups appear
// in the order their supplier is first needed; a group's shipping days come
// from the offer that created it.
func (r *Router) Route(items []CartItem, strategy Strategy) Plan {
	pick := strategy.selector(r.catalog)

	var plan Plan
	index := make(map[catalog.SupplierID]int)

	for _, it := range items {
		offer, ok := pick(it.ProductID)
		if !ok {
			plan.Unroutable = append(plan.Unroutable, it)
			continue
		}

		i, seen := index[offer.Supplier]
		if !seen {
			i = len(plan.Orders)
			index[offer.Supplier] = i
			plan.Orders = append(plan.Orders, SupplierOrder{
				Supplier:     offer.Supplier,
				TotalCost:    decimal.Zero,
				ShippingDays: offer.ShippingDays,
			})
		}

		so := &plan.Orders[i]
		so.Items = append(so.Items, AssignedItem{CartItem: it, SKU: offer.SKU, UnitCost: offer.Cost})
		so.TotalCost = so.TotalCost.Add(offer.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return plan
}

// RouteOrderToSuppliers returns only the supplier groups of Route; items that
// cannot be routed are left out.
func (r *Router) RouteOrderToSuppliers(items []CartItem, strategy Strategy) []SupplierOrder {
	return r.Route(items, strategy).Orders
}
