package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SupplierID identifies one of the wholesale suppliers the storefront buys from.
type SupplierID string

const (
	SupplierCJDropshipping SupplierID = "cjdropshipping"
	SupplierAliExpress     SupplierID = "aliexpress"
	SupplierSpocket        SupplierID = "spocket"
	SupplierZendrop        SupplierID = "zendrop"
)

var displayNames = map[SupplierID]string{
	SupplierCJDropshipping: "CJ Dropshipping",
	SupplierAliExpress:     "AliExpress",
	SupplierSpocket:        "Spocket",
	SupplierZendrop:        "Zendrop",
}

// ParseSupplierID validates a raw supplier identifier.
func ParseSupplierID(s string) (SupplierID, error) {
	id := SupplierID(s)
	if _, ok := displayNames[id]; !ok {
		return "", fmt.Errorf("%w: unknown supplier %q", ErrInvalidCatalog, s)
	}
	return id, nil
}

// DisplayName returns the human readable supplier name used in operator facing messages.
func (id SupplierID) DisplayName() string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return string(id)
}

func (id SupplierID) String() string { return string(id) }

// SupplierOffer is one supplier's terms for a single product.
type SupplierOffer struct {
	Supplier     SupplierID      `json:"supplier"`
	SKU          string          `json:"sku"`
	Cost         decimal.Decimal `json:"cost"`
	ShippingDays int             `json:"shippingDays"`
	InStock      bool            `json:"inStock"`
	Priority     int             `json:"priority"` // lower is more preferred
}

// ProductSupplierMap lists every offer known for a product.
type ProductSupplierMap struct {
	ProductID         string          `json:"productId"`
	RetailPrice       decimal.Decimal `json:"retailPrice"`
	Suppliers         []SupplierOffer `json:"suppliers"`
	PreferredSupplier SupplierID      `json:"preferredSupplier,omitempty"`
}
