package supplier

import (
	"context"
	"errors"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
)

var (
	// ErrManualOrderRequired is returned for suppliers without an API integration.
	ErrManualOrderRequired = errors.New("manual order required - no API integration")
	// ErrTrackingUnsupported is returned when a supplier adapter cannot look up tracking.
	ErrTrackingUnsupported = errors.New("tracking lookup not supported")
	// ErrAdapterNotRegistered is returned for lookups on a supplier with no adapter.
	ErrAdapterNotRegistered = errors.New("no adapter registered for supplier")
)

// Address is the purchaser's shipping destination.
type Address struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// Submission is one supplier group ready to be sent to that supplier.
type Submission struct {
	OrderNumber string
	Address     Address
	Items       []routing.AssignedItem
}

// Confirmation is what a supplier returns for an accepted order.
type Confirmation struct {
	SupplierOrderID string `json:"supplierOrderId"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
}

// Tracking is the shipping state of a submitted supplier order.
type Tracking struct {
	SupplierOrderID string `json:"supplierOrderId"`
	TrackingNumber  string `json:"trackingNumber"`
	ShippingStatus  string `json:"shippingStatus"`
	Carrier         string `json:"carrier"`
}

// Adapter submits orders to one supplier's fulfillment API.
type Adapter interface {
	Supplier() catalog.SupplierID
	Submit(ctx context.Context, s Submission) (Confirmation, error)
}

// Tracker is implemented by adapters that can look up shipment tracking.
type Tracker interface {
	Track(ctx context.Context, orderNumber string) (Tracking, error)
}
