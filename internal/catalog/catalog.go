package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidCatalog = errors.New("invalid supplier catalog")

// Catalog is the read-only product to supplier table. It is built once and
// never mutated, so concurrent readers need no locking.
type Catalog struct {
	version  int
	products map[string]ProductSupplierMap
}

// New builds a catalog from product entries. Product ids must be unique.
func New(version int, entries []ProductSupplierMap) (*Catalog, error) {
	products := make(map[string]ProductSupplierMap, len(entries))
	for _, e := range entries {
		if e.ProductID == "" {
			return nil, fmt.Errorf("%w: missing productId", ErrInvalidCatalog)
		}
		if _, dup := products[e.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate productId %q", ErrInvalidCatalog, e.ProductID)
		}
		if e.RetailPrice.IsNegative() {
			return nil, fmt.Errorf("%w: %s: negative retail price", ErrInvalidCatalog, e.ProductID)
		}
		for _, o := range e.Suppliers {
			if _, err := ParseSupplierID(string(o.Supplier)); err != nil {
				return nil, fmt.Errorf("%s: %w", e.ProductID, err)
			}
			if o.Cost.IsNegative() || o.ShippingDays < 0 {
				return nil, fmt.Errorf("%w: %s/%s: negative cost or shipping days", ErrInvalidCatalog, e.ProductID, o.Supplier)
			}
		}

		// Copy the offers so callers cannot mutate the table through their slice.
		e.Suppliers = append([]SupplierOffer(nil), e.Suppliers...)
		products[e.ProductID] = e
	}

	return &Catalog{version: version, products: products}, nil
}

func (c *Catalog) Version() int { return c.version }

// Products returns every product id in the catalog, sorted.
func (c *Catalog) Products() []string {
	ids := make([]string, 0, len(c.products))
	for id := range c.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetProductSuppliers returns the supplier map for a product.
func (c *Catalog) GetProductSuppliers(productID string) (ProductSupplierMap, bool) {
	m, ok := c.products[productID]
	if !ok {
		return ProductSupplierMap{}, false
	}
	m.Suppliers = append([]SupplierOffer(nil), m.Suppliers...)
	return m, true
}

// GetPreferredSupplier returns the offer of the designated preferred supplier,
// falling back to the first listed offer when no offer carries that name.
func (c *Catalog) GetPreferredSupplier(productID string) (SupplierOffer, bool) {
	m, ok := c.products[productID]
	if !ok || len(m.Suppliers) == 0 {
		return SupplierOffer{}, false
	}
	for _, o := range m.Suppliers {
		if o.Supplier == m.PreferredSupplier {
			return o, true
		}
	}
	return m.Suppliers[0], true
}

// GetCheapestSupplier returns the offer with the lowest unit cost. Ties go to
// the first listed offer.
func (c *Catalog) GetCheapestSupplier(productID string) (SupplierOffer, bool) {
	return c.pick(productID, func(candidate, best SupplierOffer) bool {
		return candidate.Cost.LessThan(best.Cost)
	})
}

// GetFastestSupplier returns the offer with the fewest shipping days. Ties go
// to the first listed offer.
func (c *Catalog) GetFastestSupplier(productID string) (SupplierOffer, bool) {
	return c.pick(productID, func(candidate, best SupplierOffer) bool {
		return candidate.ShippingDays < best.ShippingDays
	})
}

func (c *Catalog) pick(productID string, better func(candidate, best SupplierOffer) bool) (SupplierOffer, bool) {
	m, ok := c.products[productID]
	if !ok || len(m.Suppliers) == 0 {
		return SupplierOffer{}, false
	}
	best := m.Suppliers[0]
	for _, o := range m.Suppliers[1:] {
		if better(o, best) {
			best = o
		}
	}
	return best, true
}
