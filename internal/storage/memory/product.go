package memory

import (
	"context"
	"slices"

	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by a Store.
type ProductRepository struct {
	s *Store
}

// NewProductRepository returns a ProductRepository that uses the given store.
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

// List returns every product in catalog order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.Clone(r.s.products), nil
}

// GetByID returns the product with the given ID or product.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p := r.s.products[i]
	return &p, nil
}
