package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
)

var ErrUnknownStrategy = errors.New("unknown routing strategy")

// Strategy decides which supplier offer fulfills a cart item.
type Strategy string

const (
	StrategyPreferred Strategy = "preferred"
	StrategyCheapest  Strategy = "cheapest"
	StrategyFastest   Strategy = "fastest"
	// StrategyAvailable currently selects exactly like StrategyPreferred.
	StrategyAvailable Strategy = "available"
)

// ParseStrategy maps a raw strategy name to a Strategy. An empty name means preferred.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyPreferred, nil
	case StrategyPreferred, StrategyCheapest, StrategyFastest, StrategyAvailable:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

type selector func(productID string) (catalog.SupplierOffer, bool)

func (s Strategy) selector(c *catalog.Catalog) selector {
	switch s {
	case StrategyCheapest:
		return c.GetCheapestSupplier
	case StrategyFastest:
		return c.GetFastestSupplier
	default:
		return c.GetPreferredSupplier
	}
}
