// Package memory implements the storefront repositories on process memory.
//
// A single Store backs every repository. Two locks guard it: txMu serializes
// transactions (see WithinTx) and mu protects the maps for the duration of an
// individual repository call. Repository calls never take txMu, so they can be
// made freely from inside a transaction.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/txn"
)

var _ txn.Transactor = (*Store)(nil)

// Store holds all process-wide storefront state.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	products []product.Product
	byID     map[string]int

	carts map[string]*cart.Cart

	orders   []order.Order
	orderIDs map[string]struct{}
	counter  int

	codes     map[string]*discount.Code
	codeOrder []string
}

// New creates a Store seeded with the given catalog. The catalog is copied and
// is never mutated afterwards.
func New(catalog []product.Product) *Store {
	s := &Store{
		products: slices.Clone(catalog),
		byID:     make(map[string]int, len(catalog)),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	s.clear()
	return s
}

// WithinTx runs fn while holding the transaction lock.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	return fn(ctx)
}

// Reset drops all carts, orders and discount codes and zeroes the order
// counter. The catalog is kept. Reset waits for in-flight transactions and
// must not be called from inside WithinTx.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	return nil
}

// clear reinitializes the mutable state. Caller must hold mu or own s exclusively.
func (s *Store) clear() {
	s.carts = make(map[string]*cart.Cart)
	s.orders = nil
	s.orderIDs = make(map[string]struct{})
	s.counter = 0
	s.codes = make(map[string]*discount.Code)
	s.codeOrder = nil
}
