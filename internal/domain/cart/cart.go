package cart

import (
	"context"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a cart does not exist (or was checked out).
	ErrNotFound = errors.New("cart not found")
	// ErrMissingID is returned when an operation is invoked without a cart ID.
	ErrMissingID = errors.New("cart id is required")
	// ErrInvalidInput is returned when a product ID is empty or the quantity
	// is not positive.
	ErrInvalidInput = errors.New("valid product id and quantity are required")
	// ErrItemNotFound is returned when removing a product that is not in the cart.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrInsufficientStock is returned when the requested quantity exceeds the
	// product's stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Item is a cart line. Price is captured when the product is first added and
// is not affected by later catalog changes.
type Item struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Cart is a per-session collection of items awaiting checkout.
type Cart struct {
	ID        string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IndexOf returns the position of the item for productID, or -1.
func (c *Cart) IndexOf(productID string) int {
	return slices.IndexFunc(c.Items, func(it Item) bool {
		return it.ProductID == productID
	})
}

// Subtotal returns the sum of price * quantity across all items.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// ItemCount returns the total quantity of all items.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = slices.Clone(c.Items)
	if out.Items == nil {
		out.Items = []Item{}
	}
	return &out
}

// Repository defines persistence operations for carts. Implementations return
// copies, so callers must Save a mutated cart for the change to be visible.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	// Delete removes the cart and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
