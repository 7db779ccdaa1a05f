package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/txn"
	"github.com/xenking/storefront/internal/ident"
)

// idPrefix is prepended to generated cart IDs.
const idPrefix = "cart"

// Service encapsulates cart lifecycle operations.
type Service struct {
	carts    Repository
	products product.Repository
	tx       txn.Transactor
	now      func() time.Time
}

// NewService creates a cart Service.
func NewService(carts Repository, products product.Repository, tx txn.Transactor) *Service {
	return &Service{
		carts:    carts,
		products: products,
		tx:       tx,
		now:      time.Now,
	}
}

// Create stores a new empty cart and returns it.
func (s *Service) Create(ctx context.Context) (*Cart, error) {
	now := s.now()
	c := &Cart{
		ID:        ident.New(idPrefix, now),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return c, nil
}

// Get returns the cart with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*Cart, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return s.carts.Get(ctx, id)
}

// AddItem adds quantity units of productID to the cart. Adding a product that
// is already present merges the quantities and keeps the original price.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*Cart, error) {
	if cartID == "" {
		return nil, ErrMissingID
	}
	if productID == "" || quantity <= 0 {
		return nil, ErrInvalidInput
	}

	var out *Cart
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.carts.Get(ctx, cartID)
		if err != nil {
			return err
		}

		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		// Stock gates the requested quantity only; it is never decremented.
		if p.Stock < quantity {
			return ErrInsufficientStock
		}

		if i := c.IndexOf(productID); i >= 0 {
			c.Items[i].Quantity += quantity
		} else {
			c.Items = append(c.Items, Item{
				ProductID: productID,
				Quantity:  quantity,
				Price:     p.Price,
			})
		}
		c.UpdatedAt = s.now()

		if err := s.carts.Save(ctx, c); err != nil {
			return errors.Wrap(err, "save cart")
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveItem removes the line for productID from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*Cart, error) {
	if cartID == "" || productID == "" {
		return nil, ErrMissingID
	}

	var out *Cart
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.carts.Get(ctx, cartID)
		if err != nil {
			return err
		}

		i := c.IndexOf(productID)
		if i < 0 {
			return ErrItemNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = s.now()

		if err := s.carts.Save(ctx, c); err != nil {
			return errors.Wrap(err, "save cart")
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
