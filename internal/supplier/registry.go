package supplier

import (
	"context"
	"fmt"
	"sort"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
)

// Registry selects the adapter for a supplier. Suppliers without an adapter
// are handled manually by operators.
type Registry struct {
	adapters map[catalog.SupplierID]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[catalog.SupplierID]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Supplier()] = a
	}
	return r
}

// Lookup returns the adapter registered for id.
func (r *Registry) Lookup(id catalog.SupplierID) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// Integrated lists the suppliers that have an adapter, sorted.
func (r *Registry) Integrated() []catalog.SupplierID {
	ids := make([]catalog.SupplierID, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Submit sends s to the adapter of id, or returns ErrManualOrderRequired.
func (r *Registry) Submit(ctx context.Context, id catalog.SupplierID, s Submission) (Confirmation, error) {
	a, ok := r.Lookup(id)
	if !ok {
		return Confirmation{}, ErrManualOrderRequired
	}
	return a.Submit(ctx, s)
}

// Track looks up tracking through the adapter of id when it supports it.
func (r *Registry) Track(ctx context.Context, id catalog.SupplierID, orderNumber string) (Tracking, error) {
	a, ok := r.Lookup(id)
	if !ok {
		return Tracking{}, fmt.Errorf("%s: %w: %w", id, ErrAdapterNotRegistered, ErrTrackingUnsupported)
	}
	t, ok := a.(Tracker)
	if !ok {
		return Tracking{}, ErrTrackingUnsupported
	}
	return t.Track(ctx, orderNumber)
}
