package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/fulfillment"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/logger"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
)

// OrderPlacer places checkouts. order.Assembler implements it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.CheckoutRequest) (*order.Order, fulfillment.OrderRouteResult, error)
}

// Tracker looks up shipment tracking. supplier.Registry implements it.
type Tracker interface {
	Track(ctx context.Context, id catalog.SupplierID, orderNumber string) (supplier.Tracking, error)
}

type Options struct {
	DefaultStrategy   routing.Strategy
	DefaultAutoSubmit bool
}

type Handler struct {
	catalog   *catalog.Catalog
	fulfiller order.Fulfiller
	placer    OrderPlacer
	repo      order.Repository
	tracker   Tracker
	opts      Options
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	cat *catalog.Catalog,
	fulfiller order.Fulfiller,
	placer OrderPlacer,
	repo order.Repository,
	tracker Tracker,
	opts Options,
	log *zap.Logger,
) *Handler {
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = routing.StrategyPreferred
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		catalog:   cat,
		fulfiller: fulfiller,
		placer:    placer,
		repo:      repo,
		tracker:   tracker,
		opts:      opts,
		validate:  validator.New(),
		logger:    log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"service":        "fulfillment-service",
		"catalogVersion": h.catalog.Version(),
	})
}

func (h *Handler) GetProductSuppliers(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	m, ok := h.catalog.GetProductSuppliers(productID)
	if !ok {
		writeError(w, http.StatusNotFound, "product has no suppliers")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) GetSupplierByStrategy(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	strategy, err := routing.ParseStrategy(chi.URLParam(r, "strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		offer catalog.SupplierOffer
		ok    bool
	)
	switch strategy {
	case routing.StrategyCheapest:
		offer, ok = h.catalog.GetCheapestSupplier(productID)
	case routing.StrategyFastest:
		offer, ok = h.catalog.GetFastestSupplier(productID)
	default:
		offer, ok = h.catalog.GetPreferredSupplier(productID)
	}
	if !ok {
		writeError(w, http.StatusNotFound, "product has no suppliers")
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

type previewRequest struct {
	OrderNumber     string             `json:"orderNumber"`
	Items           []routing.CartItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress supplier.Address   `json:"shippingAddress" validate:"-"`
	Strategy        string             `json:"strategy"`
}

// Preview routes a cart and prices it without contacting any supplier.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strategy := h.opts.DefaultStrategy
	if req.Strategy != "" {
		s, err := routing.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		strategy = s
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = "PREVIEW"
	}

	res := h.fulfiller.SubmitOrderToSuppliers(r.Context(), orderNumber, req.Items, req.ShippingAddress, strategy, false)
	writeJSON(w, http.StatusOK, res)
}

type checkoutRequest struct {
	order.CheckoutRequest
	AutoSubmit *bool `json:"autoSubmit"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req := body.CheckoutRequest
	req.AutoSubmit = h.opts.DefaultAutoSubmit
	if body.AutoSubmit != nil {
		req.AutoSubmit = *body.AutoSubmit
	}

	o, _, err := h.placer.PlaceOrder(r.Context(), req)
	if err != nil {
		var unroutable *order.UnroutableError
		switch {
		case errors.As(err, &unroutable):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":      order.ErrUnroutableItems.Error(),
				"productIds": unroutable.ProductIDs,
			})
		case errors.Is(err, order.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.FromContext(r.Context(), h.logger).Error("checkout failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Error("load order failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		logger.FromContext(r.Context(), h.logger).Error("update order status failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"orderId": orderID, "status": string(status)})
}

func (h *Handler) GetTracking(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseSupplierID(chi.URLParam(r, "supplier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	orderNum := chi.URLParam(r, "orderNum")

	t, err := h.tracker.Track(r.Context(), id, orderNum)
	if err != nil {
		if errors.Is(err, supplier.ErrTrackingUnsupported) {
			writeError(w, http.StatusNotFound, "tracking not available for "+id.DisplayName())
			return
		}
		logger.FromContext(r.Context(), h.logger).Warn("tracking lookup failed",
			zap.String("supplier", string(id)), zap.String("order_number", orderNum), zap.Error(err))
		writeError(w, http.StatusBadGateway, "tracking lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
