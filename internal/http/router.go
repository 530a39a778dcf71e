package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/logger"
)

func NewRouter(h *Handler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))

	r.Get("/health", h.Health)

	r.Route("/api/catalog/products/{productId}/suppliers", func(r chi.Router) {
		r.Get("/", h.GetProductSuppliers)
		r.Get("/{strategy}", h.GetSupplierByStrategy)
	})

	r.Route("/api/fulfillment", func(r chi.Router) {
		r.Post("/preview", h.Preview)
		r.Get("/tracking/{supplier}/{orderNum}", h.GetTracking)
	})

	r.Post("/api/checkout", h.Checkout)

	r.Route("/api/orders/{orderId}", func(r chi.Router) {
		r.Get("/", h.GetOrder)
		r.Patch("/status", h.UpdateOrderStatus)
	})

	return r
}

// accessLog writes one line per request and stores a request-scoped logger
// carrying the request id in the request context.
func accessLog(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := base.With(zap.String("request_id", middleware.GetReqID(r.Context())))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			reqLog.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
