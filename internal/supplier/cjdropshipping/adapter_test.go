package cjdropshipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "valid", config: Config{BaseURL: "http://x", AccessToken: "tok"}},
		{name: "missing base url", config: Config{AccessToken: "tok"}, wantErr: ErrConfigMissingBaseURL},
		{name: "missing token", config: Config{BaseURL: "http://x"}, wantErr: ErrConfigMissingAccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultShippingMethod, tt.config.ShippingMethod)
			assert.Equal(t, 30*time.Second, tt.config.Timeout)
		})
	}
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewAdapter(Config{BaseURL: srv.URL, AccessToken: "secret-token", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return a
}

func testSubmission() supplier.Submission {
	return supplier.Submission{
		OrderNumber: "ORD-1",
		Address: supplier.Address{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555",
			Address: "1 Main St", Apartment: "2B", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
		},
		Items: []routing.AssignedItem{{
			CartItem: routing.CartItem{ProductID: "tws-pro-earbuds", Name: "TWS Pro Earbuds", UnitPrice: decimal.RequireFromString("35.00"), Quantity: 2},
			SKU:      "CJ-TWS-PRO-001",
			UnitCost: decimal.RequireFromString("12.00"),
		}},
	}
}

func TestAdapter_Submit_Success(t *testing.T) {
	var got createOrderRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, createOrderPath, r.URL.Path)
		assert.Equal(t, "secret-token", r.Header.Get(headerAccessToken))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"result":true,"message":"Success","data":{"orderId":"CJ123","orderNum":"ORD-1","status":"CREATED"}}`))
	})

	conf, err := a.Submit(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, "CJ123", conf.SupplierOrderID)
	assert.Equal(t, "CREATED", conf.Status)

	assert.Equal(t, "ORD-1", got.OrderNum)
	assert.Equal(t, DefaultShippingMethod, got.ShippingMethod)
	assert.Equal(t, "2B", got.ShippingAddress.Apartment)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "CJ-TWS-PRO-001", got.Products[0].ProductSKU)
	assert.Equal(t, "TWS Pro Earbuds", got.Products[0].ProductNameEn)
	assert.Equal(t, 2, got.Products[0].Quantity)
	assert.InDelta(t, 35.0, got.Products[0].Price, 0.0001)
	assert.Equal(t, catalog.SupplierCJDropshipping, a.Supplier())
}

func TestAdapter_Submit_Rejected(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1600100,"result":false,"message":"product sku not found"}`))
	})

	_, err := a.Submit(context.Background(), testSubmission())
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "product sku not found")
}

func TestAdapter_Submit_HTTPError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := a.Submit(context.Background(), testSubmission())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestAdapter_Submit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	a, err := NewAdapter(Config{BaseURL: srv.URL, AccessToken: "tok", Timeout: time.Second})
	require.NoError(t, err)

	_, err = a.Submit(context.Background(), testSubmission())
	require.Error(t, err)
}

func TestAdapter_Track(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, trackInfoPath, r.URL.Path)
		var req trackingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORD-7", req.OrderNum)
		_, _ = w.Write([]byte(`{"code":200,"result":true,"data":{"orderId":"CJ7","trackingNumber":"YT123","shippingStatus":"IN_TRANSIT","carrier":"YunExpress"}}`))
	})

	tr, err := a.Track(context.Background(), "ORD-7")
	require.NoError(t, err)
	assert.Equal(t, "YT123", tr.TrackingNumber)
	assert.Equal(t, "YunExpress", tr.Carrier)
	assert.Equal(t, "CJ7", tr.SupplierOrderID)
}
