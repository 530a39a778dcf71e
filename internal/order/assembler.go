package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/fulfillment"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

var (
	ErrInvalidRequest  = errors.New("invalid checkout request")
	ErrUnroutableItems = errors.New("cart contains products without a supplier")
)

// UnroutableError lists the products that blocked a checkout.
type UnroutableError struct {
	ProductIDs []string
}

func (e *UnroutableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnroutableItems, strings.Join(e.ProductIDs, ", "))
}

func (e *UnroutableError) Is(target error) bool { return target == ErrUnroutableItems }

// Notifier announces placed orders. events.Publisher implements it.
type Notifier interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// Fulfiller routes a cart and submits it to suppliers. fulfillment.Gateway implements it.
type Fulfiller interface {
	SubmitOrderToSuppliers(
		ctx context.Context,
		orderNumber string,
		cart []routing.CartItem,
		address supplier.Address,
		strategy routing.Strategy,
		autoSubmit bool,
	) fulfillment.OrderRouteResult
}

// CheckoutRequest carries everything the checkout flow knows about a paid cart.
type CheckoutRequest struct {
	OrderNumber      string             `json:"orderNumber,omitempty"`
	Items            []routing.CartItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress  supplier.Address   `json:"shippingAddress"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	ShippingCost     decimal.Decimal    `json:"shippingCost"`
	Discount         decimal.Decimal    `json:"discount"`
	Total            decimal.Decimal    `json:"total"`
	PaymentMethod    string             `json:"paymentMethod" validate:"required"`
	PaymentReference string             `json:"paymentReference"`
	Strategy         string             `json:"strategy,omitempty"`
	AutoSubmit       bool               `json:"autoSubmit"`
}

type AssemblerOptions struct {
	// RejectUnroutable refuses carts with products that have no supplier.
	RejectUnroutable bool
	// DefaultStrategy applies when a request names none.
	DefaultStrategy routing.Strategy
}

// Assembler turns a paid cart into a stored, supplier-routed order.
type Assembler struct {
	router    *routing.Router
	fulfiller Fulfiller
	repo      Repository
	notifier  Notifier
	opts      AssemblerOptions
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewAssembler(router *routing.Router, fulfiller Fulfiller, repo Repository, notifier Notifier, opts AssemblerOptions, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = routing.StrategyPreferred
	}
	return &Assembler{
		router:    router,
		fulfiller: fulfiller,
		repo:      repo,
		notifier:  notifier,
		opts:      opts,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder builds the order, submits it to suppliers and stores it. Storage
// and notification failures are logged and do not fail the checkout.
func (a *Assembler) PlaceOrder(ctx context.Context, req CheckoutRequest) (*Order, fulfillment.OrderRouteResult, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, fulfillment.OrderRouteResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	strategy := a.opts.DefaultStrategy
	if req.Strategy != "" {
		s, err := routing.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, fulfillment.OrderRouteResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		strategy = s
	}

	// The admin breakdown always reflects the preferred suppliers.
	plan := a.router.Route(req.Items, routing.StrategyPreferred)
	if a.opts.RejectUnroutable && len(plan.Unroutable) > 0 {
		ids := make([]string, 0, len(plan.Unroutable))
		for _, it := range plan.Unroutable {
			ids = append(ids, it.ProductID)
		}
		return nil, fulfillment.OrderRouteResult{}, &UnroutableError{ProductIDs: ids}
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = NewOrderNumber(a.now())
	}
	log := a.logger.With(zap.String("order_number", orderNumber))

	result := a.fulfiller.SubmitOrderToSuppliers(ctx, orderNumber, req.Items, req.ShippingAddress, strategy, req.AutoSubmit)

	o := &Order{
		ID:                orderNumber,
		Items:             itemsFromCart(req.Items),
		ShippingAddress:   req.ShippingAddress,
		Subtotal:          req.Subtotal,
		ShippingCost:      req.ShippingCost,
		Discount:          req.Discount,
		Total:             req.Total,
		PaymentMethod:     req.PaymentMethod,
		PaymentReference:  req.PaymentReference,
		Status:            StatusProcessing,
		CreatedAt:         a.now().UTC(),
		SupplierBreakdown: BuildBreakdown(plan.Orders),
		AutoSubmitted:     req.AutoSubmit,
		SupplierStatus:    string(result.Status),
		SupplierErrors:    result.Errors,
	}

	if err := a.repo.Create(ctx, o); err != nil {
		log.Error("persist order failed", zap.Error(err))
	}

	if a.notifier != nil {
		if err := a.notifier.PublishOrderPlaced(ctx, o); err != nil {
			log.Warn("order placed notification failed", zap.Error(err))
		}
	}

	log.Info("order placed",
		zap.String("supplier_status", o.SupplierStatus),
		zap.Bool("auto_submitted", o.AutoSubmitted),
		zap.Int("supplier_groups", len(result.SupplierOrders)),
	)
	return o, result, nil
}

// NewOrderNumber returns ORD-<unix millis>-<6 hex chars>.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}
