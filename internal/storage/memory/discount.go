package memory

import (
	"context"
	"time"

	"github.com/xenking/storefront/internal/domain/discount"
)

var _ discount.Registry = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Registry backed by a Store.
type DiscountRepository struct {
	s   *Store
	now func() time.Time
}

// NewDiscountRepository returns a DiscountRepository that uses the given store.
func NewDiscountRepository(s *Store) *DiscountRepository {
	return &DiscountRepository{s: s, now: time.Now}
}

// Issue stores c, failing with discount.ErrCodeExists on a duplicate code.
func (r *DiscountRepository) Issue(_ context.Context, c *discount.Code) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.codes[c.Code]; ok {
		return discount.ErrCodeExists
	}
	r.s.codes[c.Code] = cloneCode(c)
	r.s.codeOrder = append(r.s.codeOrder, c.Code)
	return nil
}

// Lookup returns a copy of the code or discount.ErrNotFound.
func (r *DiscountRepository) Lookup(_ context.Context, code string) (*discount.Code, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.codes[code]
	if !ok {
		return nil, discount.ErrNotFound
	}
	return cloneCode(c), nil
}

// MarkUsed flags the code as used and stamps UsedAt.
func (r *DiscountRepository) MarkUsed(_ context.Context, code string) (*discount.Code, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.codes[code]
	if !ok {
		return nil, discount.ErrNotFound
	}
	now := r.now()
	c.Used = true
	c.UsedAt = &now
	return cloneCode(c), nil
}

// List returns all codes in issuance order.
func (r *DiscountRepository) List(_ context.Context) ([]discount.Code, error) {
	return r.list(func(*discount.Code) bool { return true }), nil
}

// ListUnused returns the codes that have not been redeemed, in issuance order.
func (r *DiscountRepository) ListUnused(_ context.Context) ([]discount.Code, error) {
	return r.list(func(c *discount.Code) bool { return !c.Used }), nil
}

func (r *DiscountRepository) list(keep func(*discount.Code) bool) []discount.Code {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]discount.Code, 0, len(r.s.codeOrder))
	for _, code := range r.s.codeOrder {
		c := r.s.codes[code]
		if keep(c) {
			out = append(out, *cloneCode(c))
		}
	}
	return out
}

func cloneCode(c *discount.Code) *discount.Code {
	out := *c
	if c.UsedAt != nil {
		t := *c.UsedAt
		out.UsedAt = &t
	}
	return &out
}
