package cjdropshipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

const (
	createOrderPath = "/shopping/order/createOrder"
	trackInfoPath   = "/logistic/trackInfo"

	headerAccessToken = "CJ-Access-Token"

	// maxResponseSize caps how much of a response body is read (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("cjdropshipping: unexpected response status")
	// ErrRejected is returned when CJ answers with result=false.
	ErrRejected = errors.New("cjdropshipping: request rejected")
)

// Adapter submits orders to CJ Dropshipping. It does not retry.
type Adapter struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

var (
	_ supplier.Adapter = (*Adapter)(nil)
	_ supplier.Tracker = (*Adapter)(nil)
)

// NewAdapter validates config and builds an adapter.
func NewAdapter(config Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Adapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, config.RateBurst),
	}, nil
}

func (a *Adapter) Supplier() catalog.SupplierID {
	return catalog.SupplierCJDropshipping
}

// Submit creates a CJ order for the supplier group.
func (a *Adapter) Submit(ctx context.Context, s supplier.Submission) (supplier.Confirmation, error) {
	req := createOrderRequest{
		OrderNum:       s.OrderNumber,
		ShippingMethod: a.config.ShippingMethod,
		ShippingAddress: shippingAddress{
			FirstName: s.Address.FirstName,
			LastName:  s.Address.LastName,
			Email:     s.Address.Email,
			Phone:     s.Address.Phone,
			Address:   s.Address.Address,
			Apartment: s.Address.Apartment,
			City:      s.Address.City,
			State:     s.Address.State,
			ZipCode:   s.Address.ZipCode,
			Country:   s.Address.Country,
		},
		Products: make([]orderProduct, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		req.Products = append(req.Products, orderProduct{
			ProductID:     it.ProductID,
			ProductSKU:    it.SKU,
			ProductNameEn: it.Name,
			Quantity:      it.Quantity,
			Price:         it.UnitPrice.InexactFloat64(),
		})
	}

	var resp createOrderResponse
	if err := a.post(ctx, createOrderPath, req, &resp); err != nil {
		return supplier.Confirmation{}, err
	}
	if !resp.Result {
		return supplier.Confirmation{}, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}

	return supplier.Confirmation{
		SupplierOrderID: resp.Data.OrderID,
		Status:          resp.Data.Status,
		Message:         resp.Message,
	}, nil
}

// Track looks up the shipment of a previously submitted order.
func (a *Adapter) Track(ctx context.Context, orderNumber string) (supplier.Tracking, error) {
	var resp trackingResponse
	if err := a.post(ctx, trackInfoPath, trackingRequest{OrderNum: orderNumber}, &resp); err != nil {
		return supplier.Tracking{}, err
	}
	if !resp.Result {
		return supplier.Tracking{}, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}

	return supplier.Tracking{
		SupplierOrderID: resp.Data.OrderID,
		TrackingNumber:  resp.Data.TrackingNumber,
		ShippingStatus:  resp.Data.ShippingStatus,
		Carrier:         resp.Data.Carrier,
	}, nil
}

func (a *Adapter) post(ctx context.Context, path string, in, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("cjdropshipping: rate limit wait: %w", err)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("cjdropshipping: marshal request: %w", err)
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cjdropshipping: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAccessToken, a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cjdropshipping: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("cjdropshipping: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cjdropshipping: decode response: %w", err)
	}
	return nil
}
