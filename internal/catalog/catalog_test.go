package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(1, []ProductSupplierMap{
		{
			ProductID:         "p-ties",
			RetailPrice:       d("20"),
			PreferredSupplier: SupplierSpocket,
			Suppliers: []SupplierOffer{
				{Supplier: SupplierAliExpress, SKU: "ae", Cost: d("4.00"), ShippingDays: 10},
				{Supplier: SupplierZendrop, SKU: "zd", Cost: d("4.00"), ShippingDays: 5},
				{Supplier: SupplierSpocket, SKU: "sp", Cost: d("7.00"), ShippingDays: 5},
			},
		},
		{
			ProductID:         "p-unknown-preferred",
			RetailPrice:       d("10"),
			PreferredSupplier: SupplierCJDropshipping,
			Suppliers: []SupplierOffer{
				{Supplier: SupplierZendrop, SKU: "zd", Cost: d("3"), ShippingDays: 7},
				{Supplier: SupplierAliExpress, SKU: "ae", Cost: d("2"), ShippingDays: 12},
			},
		},
		{ProductID: "p-empty", RetailPrice: d("5")},
	})
	require.NoError(t, err)
	return c
}

func TestGetProductSuppliers(t *testing.T) {
	c := testCatalog(t)

	m, ok := c.GetProductSuppliers("p-ties")
	require.True(t, ok)
	assert.Equal(t, "p-ties", m.ProductID)
	assert.Len(t, m.Suppliers, 3)

	// mutating the returned slice must not leak into the catalog
	m.Suppliers[0].Cost = d("999")
	again, _ := c.GetProductSuppliers("p-ties")
	assert.True(t, again.Suppliers[0].Cost.Equal(d("4.00")))

	_, ok = c.GetProductSuppliers("missing")
	assert.False(t, ok)
}

func TestOfferSelection(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name      string
		productID string
		pick      func(string) (SupplierOffer, bool)
		wantOK    bool
		want      SupplierID
	}{
		{"preferred by name", "p-ties", c.GetPreferredSupplier, true, SupplierSpocket},
		{"preferred falls back to first listed", "p-unknown-preferred", c.GetPreferredSupplier, true, SupplierZendrop},
		{"cheapest tie resolves to first listed", "p-ties", c.GetCheapestSupplier, true, SupplierAliExpress},
		{"cheapest", "p-unknown-preferred", c.GetCheapestSupplier, true, SupplierAliExpress},
		{"fastest tie resolves to first listed", "p-ties", c.GetFastestSupplier, true, SupplierZendrop},
		{"fastest", "p-unknown-preferred", c.GetFastestSupplier, true, SupplierZendrop},
		{"preferred absent product", "missing", c.GetPreferredSupplier, false, ""},
		{"cheapest absent product", "missing", c.GetCheapestSupplier, false, ""},
		{"fastest absent product", "missing", c.GetFastestSupplier, false, ""},
		{"no offers", "p-empty", c.GetPreferredSupplier, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.pick(tt.productID)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.Supplier)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	tests := map[string][]ProductSupplierMap{
		"missing id": {{RetailPrice: d("1")}},
		"duplicate id": {
			{ProductID: "a", RetailPrice: d("1")},
			{ProductID: "a", RetailPrice: d("1")},
		},
		"unknown supplier": {{
			ProductID: "a",
			Suppliers: []SupplierOffer{{Supplier: "acme", Cost: d("1")}},
		}},
		"negative cost": {{
			ProductID: "a",
			Suppliers: []SupplierOffer{{Supplier: SupplierZendrop, Cost: d("-1")}},
		}},
	}

	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(1, entries)
			require.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())
	assert.Contains(t, c.Products(), "tws-pro-earbuds")

	offer, ok := c.GetPreferredSupplier("tws-pro-earbuds")
	require.True(t, ok)
	assert.Equal(t, SupplierCJDropshipping, offer.Supplier)
	assert.True(t, offer.Cost.Equal(d("12")))

	offer, ok = c.GetPreferredSupplier("led-strip-rgb")
	require.True(t, ok)
	assert.Equal(t, SupplierCJDropshipping, offer.Supplier)
	assert.True(t, offer.Cost.Equal(d("5")))
}

func TestLoad_RejectsUnsupportedVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version": 2, "products": []}`))
	require.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = Load(strings.NewReader(`{"version": 1, "products": [], "extra": true}`))
	require.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestSupplierDisplayName(t *testing.T) {
	assert.Equal(t, "CJ Dropshipping", SupplierCJDropshipping.DisplayName())
	assert.Equal(t, "acme", SupplierID("acme").DisplayName())

	id, err := ParseSupplierID("zendrop")
	require.NoError(t, err)
	assert.Equal(t, SupplierZendrop, id)
}
