package memory

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/cart"
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by a Store.
type CartRepository struct {
	s *Store
}

// NewCartRepository returns a CartRepository that uses the given store.
func NewCartRepository(s *Store) *CartRepository {
	return &CartRepository{s: s}
}

// Create stores a new cart. IDs are expected to be unique.
func (r *CartRepository) Create(_ context.Context, c *cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.carts[c.ID]; ok {
		return errors.Errorf("cart %q already exists", c.ID)
	}
	r.s.carts[c.ID] = c.Clone()
	return nil
}

// Get returns a copy of the stored cart or cart.ErrNotFound.
func (r *CartRepository) Get(_ context.Context, id string) (*cart.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.carts[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return c.Clone(), nil
}

// Save replaces a stored cart. Saving a deleted cart fails with
// cart.ErrNotFound, so a checked-out cart is never resurrected.
func (r *CartRepository) Save(_ context.Context, c *cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.carts[c.ID]; !ok {
		return cart.ErrNotFound
	}
	r.s.carts[c.ID] = c.Clone()
	return nil
}

// Delete removes the cart and reports whether it existed.
func (r *CartRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.carts[id]
	delete(r.s.carts, id)
	return ok, nil
}
