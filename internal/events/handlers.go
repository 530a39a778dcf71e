package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/fulfillment"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
)

const CheckoutCompletedConsumerName = "fulfillment-checkout-completed"

// OrderPlacer places checked-out carts. order.Assembler implements it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.CheckoutRequest) (*order.Order, fulfillment.OrderRouteResult, error)
}

type CheckoutHandlerOptions struct {
	ConsumerName      string
	ConsumeEnveloped  bool
	DefaultAutoSubmit bool
}

// CheckoutCompletedHandler places an order for every CheckoutCompleted event.
// Enveloped events at or below the partition checkpoint are skipped.
func CheckoutCompletedHandler(placer OrderPlacer, dedupRepo dedup.Repository, logger *zap.Logger, opts CheckoutHandlerOptions) HandlerFunc {
	if opts.ConsumerName == "" {
		opts.ConsumerName = CheckoutCompletedConsumerName
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, body []byte) error {
		msg, err := parseCheckoutCompleted(body, opts.ConsumeEnveloped)
		if err != nil {
			return err
		}

		partitionKey := msg.Payload.CartID
		var incomingSeq int64
		meta := EventMeta{}
		if msg.Envelope != nil {
			partitionKey = msg.Envelope.PartitionKey
			incomingSeq = msg.Envelope.Sequence
			meta.CorrelationID = msg.Envelope.CorrelationID
			meta.CausationID = msg.Envelope.EventID
		}
		if meta.CorrelationID == "" {
			meta.CorrelationID = uuid.NewString()
		}

		log := logger.With(
			zap.String("cart_id", msg.Payload.CartID),
			zap.String("partition_key", partitionKey),
			zap.Int64("sequence", incomingSeq),
		)

		tracked := msg.Envelope != nil && incomingSeq != 0
		if tracked {
			lastSeq, ok, err := dedupRepo.GetLastSequence(ctx, opts.ConsumerName, partitionKey)
			if err != nil {
				return err
			}
			if ok {
				if incomingSeq <= lastSeq {
					log.Info("skip duplicate checkout", zap.Int64("last_sequence", lastSeq))
					return nil
				}
				if incomingSeq > lastSeq+1 {
					log.Warn("sequence gap", zap.Int64("last_sequence", lastSeq))
				}
			}
		}

		o, res, err := placer.PlaceOrder(WithMeta(ctx, meta), msg.Payload.CheckoutRequest(opts.DefaultAutoSubmit))
		if err != nil {
			return fmt.Errorf("place order for cart %s: %w", msg.Payload.CartID, err)
		}

		if tracked {
			if err := dedupRepo.UpsertLastSequence(ctx, opts.ConsumerName, partitionKey, incomingSeq); err != nil {
				return err
			}
		}

		log.Info("order placed from checkout",
			zap.String("order_id", o.ID),
			zap.String("supplier_status", string(res.Status)),
		)
		return nil
	}
}
