package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
)

// Status is the aggregate outcome of submitting an order's supplier groups.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusPartial      Status = "partial"
	StatusFailed       Status = "failed"
	StatusNotSubmitted Status = "not_submitted"
)

// DeriveStatus maps per-group successes to the aggregate status. Success and
// failed both need at least one group; an attempt with none is partial.
func DeriveStatus(successCount, groupCount int) Status {
	switch {
	case groupCount > 0 && successCount == groupCount:
		return StatusSuccess
	case groupCount > 0 && successCount == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// SupplierOutcome records what happened to one supplier group.
type SupplierOutcome struct {
	Supplier        catalog.SupplierID `json:"supplier"`
	SupplierOrderID string             `json:"supplierOrderId,omitempty"`
	SupplierStatus  string             `json:"supplierStatus,omitempty"`
	Error           string             `json:"error,omitempty"`
}

func (o SupplierOutcome) Succeeded() bool { return o.Error == "" }

// OrderRouteResult is the routing and submission summary of one checkout attempt.
type OrderRouteResult struct {
	OrderNumber       string                  `json:"orderNumber"`
	SupplierOrders    []routing.SupplierOrder `json:"supplierOrders"`
	TotalSupplierCost decimal.Decimal         `json:"totalSupplierCost"`
	Profit            decimal.Decimal         `json:"profit"`
	Status            Status                  `json:"status"`
	Phase             Phase                   `json:"phase"`
	Errors            []string                `json:"errors"`
	Outcomes          []SupplierOutcome       `json:"outcomes,omitempty"`
	Unroutable        []string                `json:"unroutable,omitempty"`
}
