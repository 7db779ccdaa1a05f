package memory

import (
	"context"
	"slices"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/order"
)

var _ order.Ledger = (*OrderRepository)(nil)

// OrderRepository implements order.Ledger backed by a Store.
type OrderRepository struct {
	s   *Store
	now func() time.Time
}

// NewOrderRepository returns an OrderRepository that uses the given store.
func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s, now: time.Now}
}

// Record increments the counter, stamps o with the new number and creation
// time, and appends it to the ledger under one lock.
func (r *OrderRepository) Record(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orderIDs[o.ID]; ok {
		return errors.Errorf("order %q already exists", o.ID)
	}

	r.s.counter++
	o.Number = r.s.counter
	o.CreatedAt = r.now()

	stored := *o
	stored.Items = slices.Clone(o.Items)
	r.s.orders = append(r.s.orders, stored)
	r.s.orderIDs[o.ID] = struct{}{}
	return nil
}

// Counter returns the last assigned order number.
func (r *OrderRepository) Counter(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.counter, nil
}

// List returns all orders in creation order.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]order.Order, len(r.s.orders))
	for i, o := range r.s.orders {
		out[i] = o
		out[i].Items = slices.Clone(o.Items)
	}
	return out, nil
}
