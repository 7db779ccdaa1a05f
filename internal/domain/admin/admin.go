// Package admin implements store-wide maintenance operations: statistics,
// manual discount issuance and state reset.
package admin

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/txn"
)

// EnvProduction is the environment name in which Reset is refused.
const EnvProduction = "production"

var (
	// ErrForceRequired is returned when manual issuance is requested without
	// the force flag.
	ErrForceRequired = errors.New("discount code generation requires force flag")
	// ErrResetForbidden is returned by Reset in the production environment.
	ErrResetForbidden = errors.New("store reset is not allowed in production")
)

// Resetter drops all mutable store state.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Stats is a point-in-time summary of store activity.
type Stats struct {
	TotalOrders         int
	TotalItemsPurchased int
	TotalRevenue        decimal.Decimal
	TotalDiscountAmount decimal.Decimal
	DiscountCodes       []discount.Code
	UnusedDiscountCodes int
	Orders              []order.Order
}

// Service exposes the admin operations.
type Service struct {
	ledger      order.Ledger
	discounts   discount.Registry
	tx          txn.Transactor
	resetter    Resetter
	environment string
	now         func() time.Time
}

// NewService creates an admin Service. environment is compared against
// EnvProduction to gate Reset.
func NewService(
	ledger order.Ledger,
	discounts discount.Registry,
	tx txn.Transactor,
	resetter Resetter,
	environment string,
) *Service {
	return &Service{
		ledger:      ledger,
		discounts:   discounts,
		tx:          tx,
		resetter:    resetter,
		environment: environment,
		now:         time.Now,
	}
}

// Stats recomputes the store summary from the ledger and the registry.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		orders, err := s.ledger.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list orders")
		}
		codes, err := s.discounts.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list discount codes")
		}

		st = summarize(orders, codes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func summarize(orders []order.Order, codes []discount.Code) Stats {
	st := Stats{
		TotalOrders:         len(orders),
		TotalRevenue:        decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		DiscountCodes:       codes,
		Orders:              orders,
	}
	for _, o := range orders {
		for _, it := range o.Items {
			st.TotalItemsPurchased += it.Quantity
		}
		st.TotalRevenue = st.TotalRevenue.Add(o.Total)
		st.TotalDiscountAmount = st.TotalDiscountAmount.Add(o.DiscountAmount)
	}
	for _, c := range codes {
		if !c.Used {
			st.UnusedDiscountCodes++
		}
	}
	return st
}

// GenerateDiscountCode issues a code named after the next order number
// without placing an order. The code goes through the same uniqueness check
// as checkout issuance, so a repeated call before the next order fails with
// discount.ErrCodeExists.
func (s *Service) GenerateDiscountCode(ctx context.Context, force bool) (*discount.Code, error) {
	if !force {
		return nil, ErrForceRequired
	}

	var code *discount.Code
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.ledger.Counter(ctx)
		if err != nil {
			return errors.Wrap(err, "read order counter")
		}

		c := discount.Generate(n+1, s.now())
		if err := s.discounts.Issue(ctx, c); err != nil {
			if errors.Is(err, discount.ErrCodeExists) {
				return err
			}
			return errors.Wrap(err, "issue discount code")
		}
		code = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Reset clears carts, orders and discount codes. It is refused in production.
func (s *Service) Reset(ctx context.Context) error {
	if s.environment == EnvProduction {
		return ErrResetForbidden
	}
	if err := s.resetter.Reset(ctx); err != nil {
		return errors.Wrap(err, "reset store")
	}
	return nil
}
