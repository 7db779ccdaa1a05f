package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a completed checkout. Orders are immutable once recorded.
type Order struct {
	ID string
	// Number is the gapless, 1-based sequence number assigned by the Ledger.
	Number int
	// CartID references the originating cart, which no longer exists.
	CartID         string
	Items          []Item
	Subtotal       decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
}

// Item is a snapshot of a cart line at checkout time.
type Item struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Ledger is the append-only store of completed orders.
type Ledger interface {
	// Record assigns the next order number and CreatedAt to o and stores it.
	// Numbering and storage happen as one atomic step.
	Record(ctx context.Context, o *Order) error
	// Counter returns the number assigned to the most recent order, or 0.
	Counter(ctx context.Context) (int, error)
	// List returns all orders in creation order.
	List(ctx context.Context) ([]Order, error)
}
