//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/testutil"
)

func TestOrderRepository_RoundTrip(t *testing.T) {
	db, _ := testutil.StartPostgres(t)
	repo := order.NewRepository(db)
	ctx := context.Background()

	o := &order.Order{
		ID:               "ORD-1760000000000-ABC123",
		Status:           order.StatusProcessing,
		Subtotal:         decimal.RequireFromString("85.00"),
		ShippingCost:     decimal.RequireFromString("4.99"),
		Discount:         decimal.RequireFromString("5.00"),
		Total:            decimal.RequireFromString("84.99"),
		PaymentMethod:    "card",
		PaymentReference: "pi_123",
		ShippingAddress: supplier.Address{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "1",
			Address: "12 Analytical Row", City: "London", State: "LDN", ZipCode: "N1", Country: "GB",
		},
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		AutoSubmitted:  true,
		SupplierStatus: "partial",
		SupplierErrors: []string{"Zendrop: manual order required - no API integration"},
		SupplierBreakdown: map[string]order.SupplierBreakdown{
			"cjdropshipping": {Items: []string{"TWS Pro Earbuds x2"}, Cost: 24, Days: 8},
		},
		Items: []order.Item{
			{ProductID: "tws-pro-earbuds", Name: "TWS Pro Earbuds", UnitPrice: decimal.RequireFromString("35.00"), Quantity: 2},
			{ProductID: "smart-watch-fit", Name: "Smart Watch Fit", UnitPrice: decimal.RequireFromString("49.00"), Quantity: 1},
		},
	}
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, o.Total.Equal(got.Total))
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, o.ShippingAddress, got.ShippingAddress)
	assert.Equal(t, o.SupplierBreakdown, got.SupplierBreakdown)
	assert.Equal(t, o.SupplierErrors, got.SupplierErrors)
	assert.Len(t, got.Items, 2)

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, order.StatusShipped))
	got, err = repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, got.Status)

	require.ErrorIs(t, repo.UpdateStatus(ctx, "missing", order.StatusShipped), order.ErrNotFound)

	missing, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSequenceAndDedup(t *testing.T) {
	db, _ := testutil.StartPostgres(t)
	ctx := context.Background()

	seq := sequence.NewRepository(db)
	for want := int64(1); want <= 3; want++ {
		got, err := seq.NextSequence(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.NextSequence(ctx, "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	dd := dedup.NewRepository(db)
	_, ok, err := dd.GetLastSequence(ctx, "consumer", "cart-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, dd.UpsertLastSequence(ctx, "consumer", "cart-1", 5))
	require.NoError(t, dd.UpsertLastSequence(ctx, "consumer", "cart-1", 3))

	last, ok, err := dd.GetLastSequence(ctx, "consumer", "cart-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), last)
}
