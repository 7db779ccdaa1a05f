package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Redemption is the result of applying a code to a subtotal.
type Redemption struct {
	Code   string
	Amount decimal.Decimal
}

// Redeemer validates a code against a subtotal and consumes it.
type Redeemer interface {
	Redeem(ctx context.Context, code string, subtotal decimal.Decimal) (*Redemption, error)
}

// RegistryRedeemer implements Redeemer on top of a Registry.
type RegistryRedeemer struct {
	registry Registry
}

// NewRegistryRedeemer creates a RegistryRedeemer backed by the given Registry.
func NewRegistryRedeemer(registry Registry) *RegistryRedeemer {
	return &RegistryRedeemer{registry: registry}
}

// Redeem looks up the code, rejects unknown or used codes, computes the
// discount and marks the code used. The code stays used even if the caller
// fails afterwards.
func (r *RegistryRedeemer) Redeem(ctx context.Context, code string, subtotal decimal.Decimal) (*Redemption, error) {
	c, err := r.registry.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, errors.Wrap(err, "lookup discount code")
	}

	if c.Used {
		return nil, ErrCodeUsed
	}

	amount := Amount(subtotal, c.Rate)

	if _, err := r.registry.MarkUsed(ctx, code); err != nil {
		return nil, errors.Wrap(err, "mark discount code used")
	}

	return &Redemption{Code: c.Code, Amount: amount}, nil
}
