package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by a Registry when no code matches.
	ErrNotFound = errors.New("discount code not found")
	// ErrCodeExists is returned by Registry.Issue when the code string is
	// already registered.
	ErrCodeExists = errors.New("discount code already exists")
	// ErrInvalidCode is returned at checkout for an unknown code.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrCodeUsed is returned at checkout for a code that was already redeemed.
	ErrCodeUsed = errors.New("discount code has already been used")
)

// Code is a single-use percentage discount.
type Code struct {
	Code string
	// Rate is a fraction of the subtotal, e.g. 0.1 for 10%.
	Rate                  decimal.Decimal
	Used                  bool
	CreatedForOrderNumber int
	CreatedAt             time.Time
	UsedAt                *time.Time
}

// Registry stores discount codes keyed by their code string.
type Registry interface {
	// Issue stores a new code. It fails with ErrCodeExists on a duplicate.
	Issue(ctx context.Context, c *Code) error
	Lookup(ctx context.Context, code string) (*Code, error)
	// MarkUsed flags the code as used regardless of its prior state.
	MarkUsed(ctx context.Context, code string) (*Code, error)
	// List returns all codes in issuance order.
	List(ctx context.Context) ([]Code, error)
	ListUnused(ctx context.Context) ([]Code, error)
}
