package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

const noRoutableItems = "no routable items"

// Submitter sends one supplier group to its supplier. *supplier.Registry implements it.
type Submitter interface {
	Submit(ctx context.Context, id catalog.SupplierID, s supplier.Submission) (supplier.Confirmation, error)
}

// Options tunes the gateway.
type Options struct {
	// MaxConcurrent bounds in-flight supplier submissions per order. Values
	// below one submit sequentially.
	MaxConcurrent int
}

// Gateway routes carts and submits the resulting supplier groups.
type Gateway struct {
	router    *routing.Router
	submitter Submitter
	opts      Options
	logger    *zap.Logger
}

func NewGateway(router *routing.Router, submitter Submitter, opts Options, logger *zap.Logger) *Gateway {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{router: router, submitter: submitter, opts: opts, logger: logger}
}

// SubmitOrderToSuppliers routes the cart and, when autoSubmit is set, submits
// every supplier group. A failing supplier never affects the outcome of the
// others. Totals are computed whether or not anything is submitted.
func (g *Gateway) SubmitOrderToSuppliers(
	ctx context.Context,
	orderNumber string,
	cart []routing.CartItem,
	address supplier.Address,
	strategy routing.Strategy,
	autoSubmit bool,
) OrderRouteResult {
	phase := PhaseNew
	plan := g.router.Route(cart, strategy)
	phase = mustAdvance(phase, PhaseRouted)

	totalCost := plan.TotalCost()
	res := OrderRouteResult{
		OrderNumber:       orderNumber,
		SupplierOrders:    plan.Orders,
		TotalSupplierCost: totalCost,
		Profit:            routing.RetailTotal(cart).Sub(totalCost),
		Status:            StatusNotSubmitted,
		Phase:             phase,
		Errors:            []string{},
	}
	for _, it := range plan.Unroutable {
		res.Unroutable = append(res.Unroutable, it.ProductID)
	}
	if len(res.Unroutable) > 0 {
		g.logger.Warn("cart items without supplier offers",
			zap.String("order_number", orderNumber),
			zap.Strings("product_ids", res.Unroutable),
		)
	}

	if !autoSubmit {
		return res
	}

	phase = mustAdvance(phase, PhaseSubmitting)

	res.Outcomes = g.submitAll(ctx, orderNumber, address, plan.Orders)

	successCount := 0
	for _, o := range res.Outcomes {
		if o.Succeeded() {
			successCount++
			continue
		}
		res.Errors = append(res.Errors, o.Error)
	}
	if len(plan.Orders) == 0 {
		res.Errors = append(res.Errors, noRoutableItems)
	}

	res.Status = DeriveStatus(successCount, len(plan.Orders))
	res.Phase = mustAdvance(phase, phaseFor(res.Status))

	g.logger.Info("supplier submission finished",
		zap.String("order_number", orderNumber),
		zap.String("status", string(res.Status)),
		zap.Int("groups", len(plan.Orders)),
		zap.Int("succeeded", successCount),
	)
	return res
}

// submitAll runs one task per supplier group. Each task writes only its own
// slot, so the slice needs no locking and is read after Wait.
func (g *Gateway) submitAll(ctx context.Context, orderNumber string, address supplier.Address, orders []routing.SupplierOrder) []SupplierOutcome {
	outcomes := make([]SupplierOutcome, len(orders))

	var eg errgroup.Group
	eg.SetLimit(g.opts.MaxConcurrent)
	for i := range orders {
		i := i
		eg.Go(func() error {
			outcomes[i] = g.submitOne(ctx, orderNumber, address, orders[i])
			return nil
		})
	}
	_ = eg.Wait()

	return outcomes
}

func (g *Gateway) submitOne(ctx context.Context, orderNumber string, address supplier.Address, so routing.SupplierOrder) (out SupplierOutcome) {
	out.Supplier = so.Supplier
	log := g.logger.With(zap.String("order_number", orderNumber), zap.String("supplier", string(so.Supplier)))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("supplier adapter panicked", zap.Any("panic", rec))
			out = SupplierOutcome{Supplier: so.Supplier, Error: fmt.Sprintf("%s: adapter panic: %v", so.Supplier.DisplayName(), rec)}
		}
	}()

	conf, err := g.submitter.Submit(ctx, so.Supplier, supplier.Submission{
		OrderNumber: orderNumber,
		Address:     address,
		Items:       so.Items,
	})
	if err != nil {
		out.Error = fmt.Sprintf("%s: %v", so.Supplier.DisplayName(), err)
		if errors.Is(err, supplier.ErrManualOrderRequired) {
			log.Info("supplier needs a manual order")
		} else {
			log.Warn("supplier submission failed", zap.Error(err))
		}
		return out
	}

	out.SupplierOrderID = conf.SupplierOrderID
	out.SupplierStatus = conf.Status
	return out
}
